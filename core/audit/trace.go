// Package audit implements the rate-resolution and audit-decision
// pipeline: the chain of lookups and arithmetic that turns (origin,
// destination, weight, service) into an expected charge, and the
// decision logic that classifies the gap against the invoiced amount.
package audit

import (
	"freight-audit/core/types"
)

// Pipeline stage names used in explanation traces
const (
	StepServiceResolver     = "service_resolver"
	StepWeightNormalizer    = "weight_normalizer"
	StepZoneResolverOrigin  = "zone_resolver_origin"
	StepZoneResolverDest    = "zone_resolver_destination"
	StepZoneMatrixResolver  = "zone_matrix_resolver"
	StepRateBandResolver    = "rate_band_resolver"
	StepOverweightExtension = "overweight_extension"
	StepSurchargeCalculator = "surcharge_calculator"
	StepCurrencyConverter   = "currency_converter"
	StepAuditDecision       = "audit_decision"
)

// Trace accumulates one entry per pipeline stage reached, in order.
// Failures are recorded at the failing stage, so early exits stay
// visible in the result.
type Trace struct {
	entries []types.TraceEntry
}

// NewTrace creates an empty trace
func NewTrace() *Trace {
	return &Trace{entries: make([]types.TraceEntry, 0, 8)}
}

// Add records a successful stage
func (t *Trace) Add(step, input, output string) {
	t.entries = append(t.entries, types.TraceEntry{Step: step, Input: input, Output: output})
}

// AddNote records a successful stage with extra context
func (t *Trace) AddNote(step, input, output, note string) {
	t.entries = append(t.entries, types.TraceEntry{Step: step, Input: input, Output: output, Note: note})
}

// Fail records a failing stage. The error message becomes the output
// so the reason survives into persistence.
func (t *Trace) Fail(step, input string, err error) {
	t.entries = append(t.entries, types.TraceEntry{Step: step, Input: input, Output: err.Error()})
}

// Entries returns the ordered trace
func (t *Trace) Entries() []types.TraceEntry {
	return t.entries
}
