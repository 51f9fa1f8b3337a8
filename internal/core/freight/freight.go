package freight

import "github.com/shopspring/decimal"

// Surcharges are the flat charges added on top of the basic freight.
type Surcharges struct {
	Unload         decimal.Decimal `json:"unload_charges"`
	Retention      decimal.Decimal `json:"retention_charges"`
	ExtraKm        decimal.Decimal `json:"extra_km_charges"`
	MHC            decimal.Decimal `json:"mhc_charges"`
	DoorCollection decimal.Decimal `json:"door_collection_charges"`
	DoorDelivery   decimal.Decimal `json:"door_delivery_charges"`
	Other          decimal.Decimal `json:"other_charges"`
}

// Sum adds every surcharge.
func (s Surcharges) Sum() decimal.Decimal {
	return decimal.Sum(decimal.Zero, s.Unload, s.Retention, s.ExtraKm, s.MHC, s.DoorCollection, s.DoorDelivery, s.Other)
}

// Freight is the pricing section of a consignment note.
type Freight struct {
	Pending       bool            `json:"freight_pending"`
	RatePerKg     decimal.Decimal `json:"rate_per_kg"`
	ChargedWeight decimal.Decimal `json:"charged_weight"`
	Surcharges
	AdvancePaid decimal.Decimal `json:"advance_paid"`

	BasicFreight  decimal.Decimal `json:"basic_freight"`
	TotalFreight  decimal.Decimal `json:"total_freight"`
	Balance       decimal.Decimal `json:"balance"`
	AmountInWords string          `json:"amount_in_words"`
}

// FreightFromFields reads a partially filled freight form.
func FreightFromFields(f Fields) Freight {
	return Freight{
		Pending:       f.flag("freight_pending"),
		RatePerKg:     f.amount("rate_per_kg"),
		ChargedWeight: f.amount("charged_weight"),
		Surcharges: Surcharges{
			Unload:         f.amount("unload_charges"),
			Retention:      f.amount("retention_charges"),
			ExtraKm:        f.amount("extra_km_charges"),
			MHC:            f.amount("mhc_charges"),
			DoorCollection: f.amount("door_collection_charges"),
			DoorDelivery:   f.amount("door_delivery_charges"),
			Other:          f.amount("other_charges"),
		},
		AdvancePaid: f.amount("advance_paid"),
	}
}

// ComputeFreightTotal returns rate * charged weight plus every surcharge, or
// zero when freight is pending. No rounding is applied.
func ComputeFreightTotal(f Freight) decimal.Decimal {
	if f.Pending {
		return decimal.Zero
	}
	return f.RatePerKg.Mul(f.ChargedWeight).Add(f.Surcharges.Sum())
}

// ComputeFreight fills the derived fields of f. A pending freight zeroes the
// effective rate and surcharges so nothing stale is persisted. The balance due
// is the total less the advance.
func ComputeFreight(f Freight) Freight {
	if f.Pending {
		f.RatePerKg = decimal.Zero
		f.Surcharges = Surcharges{}
		f.BasicFreight = decimal.Zero
	} else {
		f.BasicFreight = f.RatePerKg.Mul(f.ChargedWeight)
	}
	f.TotalFreight = ComputeFreightTotal(f)
	f.Balance = f.TotalFreight.Sub(f.AdvancePaid)
	f.AmountInWords = AmountInWords(Round2(f.TotalFreight))
	return f
}

// Rounded returns a copy with every money field rounded to two places.
func (f Freight) Rounded() Freight {
	for _, d := range []*decimal.Decimal{
		&f.RatePerKg, &f.Unload, &f.Retention, &f.ExtraKm, &f.MHC,
		&f.DoorCollection, &f.DoorDelivery, &f.Other, &f.AdvancePaid,
		&f.BasicFreight, &f.TotalFreight, &f.Balance,
	} {
		*d = Round2(*d)
	}
	return f
}
