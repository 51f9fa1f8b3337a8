package freight

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ones = []string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
		"Sixteen", "Seventeen", "Eighteen", "Nineteen",
	}
	tens = []string{
		"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
	}
)

// scales in the Indian numbering system, largest first
var scales = []struct {
	size int64
	name string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

// numberToWords spells a non-negative integer using lakh and crore grouping.
func numberToWords(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n < 100 {
		return strings.TrimSpace(tens[n/10] + " " + ones[n%10])
	}
	for _, s := range scales {
		if n < s.size {
			continue
		}
		head := numberToWords(n/s.size) + " " + s.name
		if rest := n % s.size; rest > 0 {
			return head + " " + numberToWords(rest)
		}
		return head
	}
	return ""
}

var maxWords = decimal.NewFromInt(math.MaxInt64)

// AmountInWords renders a rupee amount, e.g. 1250.50 becomes
// "One Thousand Two Hundred Fifty Rupees and Fifty Paise Only".
// Amounts whose rupee part does not fit in an int64 render as "".
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	prefix := ""
	if amount.IsNegative() {
		prefix = "Minus "
		amount = amount.Neg()
	}
	if amount.Truncate(0).GreaterThan(maxWords) {
		return ""
	}

	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Mul(hundred).IntPart()

	var parts []string
	if rupees > 0 {
		parts = append(parts, numberToWords(rupees)+" Rupees")
	}
	if paise > 0 {
		parts = append(parts, numberToWords(paise)+" Paise")
	}
	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return prefix + strings.Join(parts, " and ") + " Only"
}
