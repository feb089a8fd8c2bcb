package audit

import (
	"github.com/shopspring/decimal"

	"freight-audit/core/ratecard"
)

var hundred = decimal.NewFromInt(100)

// SurchargeApplication records one rule's contribution for the
// explanation trace
type SurchargeApplication struct {
	// Code is the surcharge code
	Code string

	// Raw is the contribution before clamping
	Raw decimal.Decimal

	// Applied is the contribution after clamping to [Minimum, Maximum]
	Applied decimal.Decimal

	// Clamped reports whether a clamp changed the contribution
	Clamped bool

	// Subtotal is the running subtotal after this rule
	Subtotal decimal.Decimal
}

// ApplySurcharges layers an ordered list of surcharge rules onto a
// base charge. Flat rules add their value; percentage rules add a
// percentage of the running subtotal (or of the base charge, per the
// rule); per-kg rules add value times the billable weight. Each raw
// contribution is clamped to the rule's [Minimum, Maximum] before it
// joins the subtotal. Order matters: percentage-of-running rules
// compound on everything applied before them.
func ApplySurcharges(baseCharge, billableKg decimal.Decimal, rules []ratecard.SurchargeRule) (decimal.Decimal, []SurchargeApplication) {
	subtotal := baseCharge
	applications := make([]SurchargeApplication, 0, len(rules))

	for _, rule := range rules {
		var raw decimal.Decimal
		switch rule.Kind {
		case ratecard.SurchargeFlat:
			raw = rule.Value
		case ratecard.SurchargePercentage:
			percentOf := subtotal
			if rule.PercentBase == ratecard.PercentOfBase {
				percentOf = baseCharge
			}
			raw = percentOf.Mul(rule.Value).Div(hundred)
		case ratecard.SurchargePerKg:
			raw = rule.Value.Mul(billableKg)
		}

		applied, clamped := clamp(raw, rule.Minimum, rule.Maximum)
		subtotal = subtotal.Add(applied)

		applications = append(applications, SurchargeApplication{
			Code:     rule.Code,
			Raw:      raw,
			Applied:  applied,
			Clamped:  clamped,
			Subtotal: subtotal,
		})
	}

	return subtotal, applications
}

// clamp bounds a contribution to [min, max]; nil bounds are open
func clamp(v decimal.Decimal, min, max *decimal.Decimal) (decimal.Decimal, bool) {
	if min != nil && v.LessThan(*min) {
		return *min, true
	}
	if max != nil && v.GreaterThan(*max) {
		return *max, true
	}
	return v, false
}
