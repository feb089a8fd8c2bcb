package audit

import (
	"github.com/shopspring/decimal"

	"freight-audit/core/ratecard"
	"freight-audit/internal/errors"
)

// ExtensionDetail records the overweight extension arithmetic for the
// explanation trace
type ExtensionDetail struct {
	// CeilingWeightKg is the top of the base table
	CeilingWeightKg decimal.Decimal

	// CeilingPrice is the price at the base table's top band
	CeilingPrice decimal.Decimal

	// IncrementKg is the extension row's billing increment
	IncrementKg decimal.Decimal

	// PerIncrementRate is the extension row's add-on rate
	PerIncrementRate decimal.Decimal

	// Increments is ceil((billable - ceiling) / increment)
	Increments int64

	// Extra is Increments * PerIncrementRate
	Extra decimal.Decimal
}

// BaseCharge is the resolved pre-surcharge charge
type BaseCharge struct {
	// Amount is the base charge in the rate-card currency
	Amount decimal.Decimal

	// Band is the row that matched
	Band ratecard.RateBand

	// Extension is non-nil when the overweight path was taken
	Extension *ExtensionDetail
}

// ResolveBaseCharge looks up the base charge for a billable weight in
// a rate zone. Weights inside a non-extension band take that band's
// flat price. Weights beyond the base table's ceiling delegate to the
// overweight extension. A weight no row covers is a typed failure -
// never silently clamped to the nearest available row.
func ResolveBaseCharge(snap *ratecard.Snapshot, rateZone string, billableKg decimal.Decimal) (BaseCharge, error) {
	base := snap.BaseBands(rateZone)
	if len(base) == 0 {
		return BaseCharge{}, errors.MissingRateBand(rateZone, billableKg.String())
	}

	for _, band := range base {
		if band.Contains(billableKg) {
			return BaseCharge{Amount: band.Price, Band: band}, nil
		}
	}

	ceiling := base[len(base)-1]
	if billableKg.GreaterThan(ceiling.WeightToKg) {
		return resolveOverweight(snap, rateZone, billableKg, ceiling)
	}

	// Below the table floor or inside a gap between bands
	return BaseCharge{}, errors.MissingRateBand(rateZone, billableKg.String())
}

// resolveOverweight prices a weight beyond the base table. The
// extension row whose interval contains the weight supplies a
// per-increment rate; the charge extends the ceiling price by
// ceil((billable - ceiling) / increment) increments. The result is
// monotonically non-decreasing in billable weight.
func resolveOverweight(snap *ratecard.Snapshot, rateZone string, billableKg decimal.Decimal, ceiling ratecard.RateBand) (BaseCharge, error) {
	for _, row := range snap.ExtensionBands(rateZone) {
		if !row.Contains(billableKg) {
			continue
		}

		increments := billableKg.Sub(ceiling.WeightToKg).Div(row.IncrementKg).Ceil().IntPart()
		extra := row.Price.Mul(decimal.NewFromInt(increments))

		return BaseCharge{
			Amount: ceiling.Price.Add(extra),
			Band:   row,
			Extension: &ExtensionDetail{
				CeilingWeightKg:  ceiling.WeightToKg,
				CeilingPrice:     ceiling.Price,
				IncrementKg:      row.IncrementKg,
				PerIncrementRate: row.Price,
				Increments:       increments,
				Extra:            extra,
			},
		}, nil
	}

	// No extension row covers the weight. Surface it: reusing an
	// adjacent, non-covering row would misprice every overweight
	// shipment in the gap.
	return BaseCharge{}, errors.MissingRateBand(rateZone, billableKg.String())
}
