package audit

import (
	"github.com/shopspring/decimal"

	"freight-audit/internal/errors"
)

// RoundingPolicy is a carrier's billable-weight rounding rule: below
// the threshold round up to one increment, above it to another.
// A typical express policy: below 20kg round up to 0.5kg, above to 1kg.
type RoundingPolicy struct {
	ThresholdKg      decimal.Decimal `json:"threshold_kg"`
	IncrementBelowKg decimal.Decimal `json:"increment_below_kg"`
	IncrementAboveKg decimal.Decimal `json:"increment_above_kg"`
}

// Validate checks the policy shape
func (p RoundingPolicy) Validate() error {
	if !p.IncrementBelowKg.IsPositive() || !p.IncrementAboveKg.IsPositive() {
		return errors.New(errors.TypeConfig, "rounding increments must be positive")
	}
	if p.ThresholdKg.IsNegative() {
		return errors.New(errors.TypeConfig, "rounding threshold must not be negative")
	}
	return nil
}

// NormalizeWeight rounds an actual weight up to the carrier's billable
// weight. Idempotent: a weight already on an increment boundary is
// returned unchanged. Weights at the threshold use the below-threshold
// increment.
//
// Rounding runs to a fixed point: a below-threshold weight whose
// rounded value crosses the threshold is re-rounded with the
// above-threshold increment, so the returned weight always
// re-normalizes to itself under the same policy.
func NormalizeWeight(actualKg decimal.Decimal, policy RoundingPolicy) (decimal.Decimal, error) {
	if !actualKg.IsPositive() {
		return decimal.Zero, errors.InvalidWeight(actualKg.String())
	}

	billable := actualKg
	for {
		increment := policy.IncrementBelowKg
		if billable.GreaterThan(policy.ThresholdKg) {
			increment = policy.IncrementAboveKg
		}
		rounded := billable.Div(increment).Ceil().Mul(increment)
		if rounded.Equal(billable) {
			return rounded, nil
		}
		billable = rounded
	}
}
