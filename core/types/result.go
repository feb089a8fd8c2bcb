package types

import (
	"github.com/shopspring/decimal"
)

// AuditStatus classifies the gap between expected and invoiced amounts
type AuditStatus string

const (
	// StatusPass means the variance is within the pass tolerance
	StatusPass AuditStatus = "PASS"

	// StatusReview means the variance needs a human decision, or the
	// expected amount could not be computed confidently
	StatusReview AuditStatus = "REVIEW"

	// StatusOvercharge means the carrier billed more than expected
	StatusOvercharge AuditStatus = "OVERCHARGE"

	// StatusUndercharge means the carrier billed less than expected
	StatusUndercharge AuditStatus = "UNDERCHARGE"
)

// String returns the string representation of the status
func (s AuditStatus) String() string {
	return string(s)
}

// statusPriority orders statuses for invoice rollups: the worst
// status of any line wins.
var statusPriority = map[AuditStatus]int{
	StatusOvercharge:  3,
	StatusUndercharge: 2,
	StatusReview:      1,
	StatusPass:        0,
}

// WorsePriority reports whether s outranks other in a rollup
func (s AuditStatus) WorsePriority(other AuditStatus) bool {
	return statusPriority[s] > statusPriority[other]
}

// TraceEntry records one pipeline stage in the explanation trace
type TraceEntry struct {
	// Step is the stage name (weight_normalizer, zone_resolver, ...)
	Step string `json:"step"`

	// Input is the stage input, formatted for display
	Input string `json:"input"`

	// Output is the stage output, or the failure reason on early exit
	Output string `json:"output"`

	// Note carries extra context (heuristic hit, clamp applied, ...)
	Note string `json:"note,omitempty"`
}

// AuditResult is the outcome of auditing one shipment.
// Created once per shipment per run; immutable after creation.
type AuditResult struct {
	// AWB identifies the audited shipment
	AWB string `json:"awb"`

	// InvoiceID groups lines for per-invoice rollups
	InvoiceID string `json:"invoice_id"`

	// ExpectedAmount is the independently recomputed charge in the
	// invoice currency. Zero when the pipeline failed before pricing.
	ExpectedAmount decimal.Decimal `json:"expected_amount"`

	// InvoicedAmount is what the carrier billed
	InvoicedAmount decimal.Decimal `json:"invoiced_amount"`

	// Currency is the invoice currency both amounts are expressed in
	Currency string `json:"currency"`

	// Variance is invoiced minus expected
	Variance decimal.Decimal `json:"variance"`

	// VariancePercent is nil when ExpectedAmount is zero
	VariancePercent *decimal.Decimal `json:"variance_percent,omitempty"`

	// Status is the audit classification
	Status AuditStatus `json:"status"`

	// ReviewReason is the failure kind that forced REVIEW, empty for
	// threshold-based classifications
	ReviewReason string `json:"review_reason,omitempty"`

	// Trace holds one entry per pipeline stage reached, in order,
	// including the failing stage on early exit
	Trace []TraceEntry `json:"trace"`

	// SnapshotID identifies the rate-card snapshot used
	SnapshotID string `json:"snapshot_id"`

	// SnapshotHash is the snapshot content hash, for verification
	SnapshotHash string `json:"snapshot_hash"`
}
