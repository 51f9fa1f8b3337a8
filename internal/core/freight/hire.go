package freight

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Hire is the hire section of a challan. The last four fields are derived
// and are overwritten by ComputeHireTotals.
type Hire struct {
	NoOfCNs          int64           `json:"no_of_cns"`
	NoOfPackages     int64           `json:"no_of_packages"`
	ActualWeight     decimal.Decimal `json:"actual_weight"`
	ChargeWeight     decimal.Decimal `json:"charge_weight"`
	VehicleCapacity  decimal.Decimal `json:"vehicle_capacity"`
	LoadingPoints    int64           `json:"loading_points"`
	UnloadingPoints  int64           `json:"unloading_points"`
	RatePerKg        decimal.Decimal `json:"rate_per_kg"`
	Hire             decimal.Decimal `json:"hire"`
	OverWeight       decimal.Decimal `json:"over_weight"`
	OverLength       decimal.Decimal `json:"over_length"`
	OverHeight       decimal.Decimal `json:"over_height"`
	OverWidth        decimal.Decimal `json:"over_width"`
	ExtraKmCharges   decimal.Decimal `json:"extra_km_charges"`
	DetentionCharges decimal.Decimal `json:"detention_charges"`
	TransitPass      decimal.Decimal `json:"transit_pass_charges"`
	AdvancePayment   decimal.Decimal `json:"advance_payment"`
	TDSPercent       decimal.Decimal `json:"tds_percent"`

	TotalExtra    decimal.Decimal `json:"total_extra"`
	TotalHire     decimal.Decimal `json:"total_hire"`
	LessTDS       decimal.Decimal `json:"less_tds"`
	BalanceAmount decimal.Decimal `json:"balance_amount"`
}

// HireFromFields reads a partially filled hire form. Missing or malformed
// values become zero; derived fields in the input are ignored.
func HireFromFields(f Fields) Hire {
	return Hire{
		NoOfCNs:          f.count("no_of_cns"),
		NoOfPackages:     f.count("no_of_packages"),
		ActualWeight:     f.amount("actual_weight"),
		ChargeWeight:     f.amount("charge_weight"),
		VehicleCapacity:  f.amount("vehicle_capacity"),
		LoadingPoints:    f.count("loading_points"),
		UnloadingPoints:  f.count("unloading_points"),
		RatePerKg:        f.amount("rate_per_kg"),
		Hire:             f.amount("hire"),
		OverWeight:       f.amount("over_weight"),
		OverLength:       f.amount("over_length"),
		OverHeight:       f.amount("over_height"),
		OverWidth:        f.amount("over_width"),
		ExtraKmCharges:   f.amount("extra_km_charges"),
		DetentionCharges: f.amount("detention_charges"),
		TransitPass:      f.amount("transit_pass_charges"),
		AdvancePayment:   f.amount("advance_payment"),
		TDSPercent:       f.amount("tds_percent"),
	}
}

// ComputeHireTotals returns h with the derived totals recomputed from the
// inputs, in this order:
//
//	total_extra    = over_weight + over_length + over_height + over_width + extra_km_charges
//	total_hire     = hire + total_extra + detention_charges + transit_pass_charges
//	less_tds       = round(total_hire * tds_percent / 100), half away from zero
//	balance_amount = total_hire - advance_payment - less_tds
//
// Negative inputs are carried through unchanged.
func ComputeHireTotals(h Hire) Hire {
	h.TotalExtra = decimal.Sum(decimal.Zero, h.OverWeight, h.OverLength, h.OverHeight, h.OverWidth, h.ExtraKmCharges)
	h.TotalHire = decimal.Sum(h.Hire, h.TotalExtra, h.DetentionCharges, h.TransitPass)
	h.LessTDS = h.TotalHire.Mul(h.TDSPercent).Div(hundred).Round(0)
	h.BalanceAmount = h.TotalHire.Sub(h.AdvancePayment).Sub(h.LessTDS)
	return h
}

// Rounded returns a copy with every money field rounded to two places.
func (h Hire) Rounded() Hire {
	for _, d := range []*decimal.Decimal{
		&h.RatePerKg, &h.Hire, &h.OverWeight, &h.OverLength, &h.OverHeight,
		&h.OverWidth, &h.ExtraKmCharges, &h.DetentionCharges, &h.TransitPass,
		&h.AdvancePayment, &h.TotalExtra, &h.TotalHire, &h.LessTDS, &h.BalanceAmount,
	} {
		*d = Round2(*d)
	}
	return h
}
