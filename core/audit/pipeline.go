package audit

import (
	"fmt"

	"go.uber.org/zap"

	"freight-audit/core/ratecard"
	"freight-audit/core/types"
	"freight-audit/internal/errors"
	"freight-audit/internal/logging"
)

// Pipeline audits one shipment at a time against an immutable
// rate-card snapshot and a carrier profile. It is a pure, synchronous
// computation: the snapshot and profile are read-only, so one Pipeline
// is safe to share across workers with no locking.
type Pipeline struct {
	snapshot *ratecard.Snapshot
	profile  *CarrierProfile

	// rules is the profile's surcharge order resolved against the
	// snapshot once, at construction
	rules []ratecard.SurchargeRule

	logger *zap.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the pipeline logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// NewPipeline validates the profile, resolves the surcharge order
// against the snapshot, and returns a ready pipeline. Configuration
// problems fail here, before any shipment is processed.
func NewPipeline(snapshot *ratecard.Snapshot, profile *CarrierProfile, opts ...Option) (*Pipeline, error) {
	if snapshot == nil {
		return nil, errors.New(errors.TypeConfig, "pipeline needs a rate-card snapshot")
	}
	if profile == nil {
		return nil, errors.New(errors.TypeConfig, "pipeline needs a carrier profile")
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	rules := make([]ratecard.SurchargeRule, 0, len(profile.SurchargeOrder))
	for _, code := range profile.SurchargeOrder {
		rule, ok := snapshot.Surcharge(code)
		if !ok {
			return nil, errors.Newf(errors.TypeConfig,
				"carrier profile %q orders surcharge %q, not present in snapshot %s",
				profile.Name, code, snapshot.ID())
		}
		if rule.Matches(profile.Service, profile.Direction) {
			rules = append(rules, rule)
		}
	}

	p := &Pipeline{
		snapshot: snapshot,
		profile:  profile,
		rules:    rules,
		logger:   logging.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Snapshot returns the snapshot the pipeline prices against
func (p *Pipeline) Snapshot() *ratecard.Snapshot {
	return p.snapshot
}

// Profile returns the carrier profile
func (p *Pipeline) Profile() *CarrierProfile {
	return p.profile
}

// Audit runs the full pipeline for one shipment and always returns a
// result: upstream failures are converted to REVIEW with the failing
// step in the trace, never propagated as errors.
func (p *Pipeline) Audit(shipment types.Shipment) types.AuditResult {
	trace := NewTrace()

	service := shipment.Service
	if !service.IsValid() {
		// Undeclared product: audit under the profile's product
		service = p.profile.Service
		trace.AddNote(StepServiceResolver,
			fmt.Sprintf("service=%q", shipment.Service),
			fmt.Sprintf("service=%q", service),
			"undeclared service, audited under the profile service")
	}

	// Billable weight
	weightInput := fmt.Sprintf("actual=%skg", shipment.ActualWeightKg)
	billable, err := NormalizeWeight(shipment.ActualWeightKg, p.profile.Rounding)
	if err != nil {
		return p.review(shipment, trace, StepWeightNormalizer, weightInput, err)
	}
	trace.Add(StepWeightNormalizer, weightInput, fmt.Sprintf("billable=%skg", billable))

	// Origin and destination zones
	originInput := fmt.Sprintf("code=%q address=%q", shipment.Origin, shipment.OriginAddress)
	origin, err := ResolveZone(p.snapshot, shipment.Origin, shipment.OriginAddress, types.DirectionOrigin, service)
	if err != nil {
		return p.review(shipment, trace, StepZoneResolverOrigin, originInput, err)
	}
	trace.AddNote(StepZoneResolverOrigin, originInput, fmt.Sprintf("zone=%d", origin.Zone), zoneNote(origin))

	destInput := fmt.Sprintf("code=%q address=%q", shipment.Destination, shipment.DestinationAddress)
	dest, err := ResolveZone(p.snapshot, shipment.Destination, shipment.DestinationAddress, types.DirectionDestination, service)
	if err != nil {
		return p.review(shipment, trace, StepZoneResolverDest, destInput, err)
	}
	trace.AddNote(StepZoneResolverDest, destInput, fmt.Sprintf("zone=%d", dest.Zone), zoneNote(dest))

	// Rate zone
	matrixInput := fmt.Sprintf("origin_zone=%d destination_zone=%d", origin.Zone, dest.Zone)
	rateZone, err := ResolveRateZone(p.snapshot, origin.Zone, dest.Zone, service)
	if err != nil {
		return p.review(shipment, trace, StepZoneMatrixResolver, matrixInput, err)
	}
	trace.Add(StepZoneMatrixResolver, matrixInput, fmt.Sprintf("rate_zone=%q", rateZone))

	// Base charge, possibly via the overweight extension
	bandInput := fmt.Sprintf("billable=%skg rate_zone=%q", billable, rateZone)
	base, err := ResolveBaseCharge(p.snapshot, rateZone, billable)
	if err != nil {
		return p.review(shipment, trace, StepRateBandResolver, bandInput, err)
	}
	trace.Add(StepRateBandResolver, bandInput,
		fmt.Sprintf("band=%s-%skg base=%s", base.Band.WeightFromKg, base.Band.WeightToKg, base.Amount))
	if ext := base.Extension; ext != nil {
		trace.Add(StepOverweightExtension,
			fmt.Sprintf("ceiling=%skg@%s increment=%skg rate=%s", ext.CeilingWeightKg, ext.CeilingPrice, ext.IncrementKg, ext.PerIncrementRate),
			fmt.Sprintf("increments=%d extra=%s", ext.Increments, ext.Extra))
	}

	// Surcharges
	subtotal, applications := ApplySurcharges(base.Amount, billable, p.rules)
	if len(applications) == 0 {
		trace.Add(StepSurchargeCalculator, fmt.Sprintf("base=%s", base.Amount), "no surcharge rules apply")
	}
	for _, app := range applications {
		note := ""
		if app.Clamped {
			note = "clamped"
		}
		trace.AddNote(StepSurchargeCalculator,
			fmt.Sprintf("rule=%s", app.Code),
			fmt.Sprintf("raw=%s applied=%s subtotal=%s", app.Raw, app.Applied, app.Subtotal),
			note)
	}

	// Invoice currency
	currencyInput := fmt.Sprintf("amount=%s %s->%s", subtotal, p.profile.Currency, shipment.InvoiceCurrency)
	expected, err := ConvertCurrency(subtotal, p.profile.Currency, shipment.InvoiceCurrency, p.profile.ExchangeRates)
	if err != nil {
		return p.review(shipment, trace, StepCurrencyConverter, currencyInput, err)
	}
	trace.Add(StepCurrencyConverter, currencyInput, fmt.Sprintf("expected=%s", expected))

	// Classification
	decision := Classify(expected, shipment.InvoicedAmount, p.profile.Thresholds)
	decisionOut := string(decision.Status)
	if decision.VariancePercent != nil {
		decisionOut = fmt.Sprintf("%s variance=%s (%s%%)", decision.Status, decision.Variance, decision.VariancePercent.StringFixed(2))
	}
	reviewReason := ""
	if decision.Status == types.StatusReview && expected.IsZero() {
		reviewReason = ReasonZeroExpected
	}
	trace.AddNote(StepAuditDecision,
		fmt.Sprintf("expected=%s invoiced=%s", expected, shipment.InvoicedAmount), decisionOut, reviewReason)

	return types.AuditResult{
		AWB:             shipment.AWB,
		InvoiceID:       shipment.InvoiceID,
		ExpectedAmount:  expected,
		InvoicedAmount:  shipment.InvoicedAmount,
		Currency:        shipment.InvoiceCurrency,
		Variance:        decision.Variance,
		VariancePercent: decision.VariancePercent,
		Status:          decision.Status,
		ReviewReason:    reviewReason,
		Trace:           trace.Entries(),
		SnapshotID:      string(p.snapshot.ID()),
		SnapshotHash:    p.snapshot.ContentHash().Hex(),
	}
}

// review converts a typed pipeline failure into a REVIEW result.
// Absence of data is never interpreted as a zero-variance match.
func (p *Pipeline) review(shipment types.Shipment, trace *Trace, step, input string, err error) types.AuditResult {
	trace.Fail(step, input, err)
	reason := errors.TypeOf(err)
	trace.AddNote(StepAuditDecision, "expected=unavailable", string(types.StatusReview), string(reason))

	p.logger.Warn("shipment forced to review",
		zap.String("awb", shipment.AWB),
		zap.String("step", step),
		zap.String("reason", string(reason)),
		zap.Error(err))

	return types.AuditResult{
		AWB:            shipment.AWB,
		InvoiceID:      shipment.InvoiceID,
		InvoicedAmount: shipment.InvoicedAmount,
		Currency:       shipment.InvoiceCurrency,
		Status:         types.StatusReview,
		ReviewReason:   string(reason),
		Trace:          trace.Entries(),
		SnapshotID:     string(p.snapshot.ID()),
		SnapshotHash:   p.snapshot.ContentHash().Hex(),
	}
}

func zoneNote(r ZoneResolution) string {
	if r.Source == ZoneSourceMapping {
		return ""
	}
	return fmt.Sprintf("derived via %s from %q", r.Source, r.Code)
}
