package audit

import (
	"github.com/shopspring/decimal"

	"freight-audit/core/types"
	"freight-audit/internal/errors"
)

// Thresholds are the tolerance bands for classification, in percent
// of the expected amount
type Thresholds struct {
	// PassPercent is the tolerance within which a variance passes
	PassPercent decimal.Decimal `json:"pass_percent"`

	// ReviewPercent is the tolerance beyond pass within which a
	// variance goes to human review instead of a hard flag
	ReviewPercent decimal.Decimal `json:"review_percent"`
}

// Validate checks threshold shape
func (t Thresholds) Validate() error {
	if t.PassPercent.IsNegative() || t.ReviewPercent.IsNegative() {
		return errors.New(errors.TypeConfig, "thresholds must not be negative")
	}
	if t.PassPercent.GreaterThan(t.ReviewPercent) {
		return errors.New(errors.TypeConfig, "pass threshold must not exceed review threshold")
	}
	return nil
}

// ReasonZeroExpected marks REVIEW results whose expected amount
// computed successfully but came out zero, so no variance percentage
// can anchor a classification
const ReasonZeroExpected = "ZERO_EXPECTED_AMOUNT"

// Decision is the classification of expected vs invoiced
type Decision struct {
	Status   types.AuditStatus
	Variance decimal.Decimal

	// VariancePercent is nil when the expected amount is zero
	VariancePercent *decimal.Decimal
}

// Classify compares the invoiced amount against the independently
// computed expected amount. A zero expected amount cannot anchor a
// percentage, so it always goes to review - absence of an expected
// charge is never treated as a zero-variance match.
func Classify(expected, invoiced decimal.Decimal, t Thresholds) Decision {
	variance := invoiced.Sub(expected)

	if expected.IsZero() {
		return Decision{Status: types.StatusReview, Variance: variance}
	}

	pct := variance.Div(expected).Mul(hundred)
	d := Decision{Variance: variance, VariancePercent: &pct}

	switch {
	case pct.Abs().LessThanOrEqual(t.PassPercent):
		d.Status = types.StatusPass
	case pct.Abs().LessThanOrEqual(t.ReviewPercent):
		d.Status = types.StatusReview
	case variance.IsPositive():
		d.Status = types.StatusOvercharge
	default:
		d.Status = types.StatusUndercharge
	}
	return d
}
