// Package freight holds the pure pricing arithmetic behind the challan hire
// form and the consignment freight sidebar.
package freight

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Coerce converts a loosely typed form value into a decimal. Anything that is
// not a finite number (empty strings, partial input such as "-" or "1.2.3",
// booleans, nil) is treated as zero.
func Coerce(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case json.Number:
		return parse(string(x))
	case string:
		return parse(x)
	default:
		return decimal.Zero
	}
}

func parse(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Round2 rounds a money value for display.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Fields is a partially filled form keyed by JSON field name.
type Fields map[string]interface{}

func (f Fields) amount(key string) decimal.Decimal {
	return Coerce(f[key])
}

var (
	maxCount = decimal.NewFromInt(math.MaxInt64)
	minCount = decimal.NewFromInt(math.MinInt64)
)

// count truncates to a whole number, saturating at the int64 bounds.
func (f Fields) count(key string) int64 {
	d := Coerce(f[key]).Truncate(0)
	switch {
	case d.GreaterThan(maxCount):
		return math.MaxInt64
	case d.LessThan(minCount):
		return math.MinInt64
	}
	return d.IntPart()
}

func (f Fields) flag(key string) bool {
	switch x := f[key].(type) {
	case bool:
		return x
	case string:
		return strings.EqualFold(x, "true") || x == "1"
	default:
		return false
	}
}
