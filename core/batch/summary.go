package batch

import (
	"time"

	"github.com/shopspring/decimal"

	"freight-audit/core/determinism"
	"freight-audit/core/types"
)

// ReasonVarianceInReviewBand groups REVIEW results that came from the
// tolerance bands rather than a pipeline failure
const ReasonVarianceInReviewBand = "VARIANCE_IN_REVIEW_BAND"

// Result is the outcome of one batch run
type Result struct {
	// Results holds one AuditResult per completed shipment, in input
	// order
	Results []types.AuditResult `json:"results"`

	// Summary aggregates the batch
	Summary Summary `json:"summary"`
}

// Summary aggregates a batch. All accumulation is commutative, so the
// rollup cannot depend on worker scheduling.
type Summary struct {
	// Dispatched is how many shipments the batch was given
	Dispatched int `json:"dispatched"`

	// Completed is how many produced a result (equals Dispatched
	// unless the batch was cancelled)
	Completed int `json:"completed"`

	// TotalExpected sums the recomputed charges
	TotalExpected decimal.Decimal `json:"total_expected"`

	// TotalInvoiced sums what the carrier billed
	TotalInvoiced decimal.Decimal `json:"total_invoiced"`

	// TotalVariance sums invoiced minus expected
	TotalVariance decimal.Decimal `json:"total_variance"`

	// StatusCounts counts results per classification
	StatusCounts map[types.AuditStatus]int `json:"status_counts"`

	// ReviewReasons groups REVIEW results by failure kind, so a
	// systemic rate-card gap shows up in aggregate instead of being
	// buried per shipment
	ReviewReasons map[string]int `json:"review_reasons,omitempty"`

	// Invoices rolls up lines sharing an invoice identifier, sorted
	// by invoice ID
	Invoices []InvoiceRollup `json:"invoices"`

	// Carrier and SnapshotID record what the batch was audited
	// against
	Carrier    string `json:"carrier"`
	SnapshotID string `json:"snapshot_id"`

	// Duration is the wall-clock batch time
	Duration time.Duration `json:"duration"`
}

// InvoiceRollup aggregates the line items of one invoice. The same
// invoice may carry several AWBs.
type InvoiceRollup struct {
	InvoiceID string          `json:"invoice_id"`
	Lines     int             `json:"lines"`
	Expected  decimal.Decimal `json:"expected"`
	Invoiced  decimal.Decimal `json:"invoiced"`
	Variance  decimal.Decimal `json:"variance"`

	// Status is the worst line status:
	// OVERCHARGE > UNDERCHARGE > REVIEW > PASS
	Status types.AuditStatus `json:"status"`
}

// summarize folds results into a Summary
func summarize(results []types.AuditResult, pipeline Auditor, duration time.Duration) Summary {
	s := Summary{
		Completed:     len(results),
		StatusCounts:  make(map[types.AuditStatus]int),
		ReviewReasons: make(map[string]int),
		Carrier:       pipeline.Profile().Name,
		SnapshotID:    string(pipeline.Snapshot().ID()),
		Duration:      duration,
	}

	rollups := make(map[string]*InvoiceRollup)

	for _, r := range results {
		s.TotalExpected = s.TotalExpected.Add(r.ExpectedAmount)
		s.TotalInvoiced = s.TotalInvoiced.Add(r.InvoicedAmount)
		s.TotalVariance = s.TotalVariance.Add(r.Variance)
		s.StatusCounts[r.Status]++

		if r.Status == types.StatusReview {
			reason := r.ReviewReason
			if reason == "" {
				reason = ReasonVarianceInReviewBand
			}
			s.ReviewReasons[reason]++
		}

		invoiceID := r.InvoiceID
		if invoiceID == "" {
			invoiceID = r.AWB
		}
		rollup, ok := rollups[invoiceID]
		if !ok {
			rollup = &InvoiceRollup{InvoiceID: invoiceID, Status: types.StatusPass}
			rollups[invoiceID] = rollup
		}
		rollup.Lines++
		rollup.Expected = rollup.Expected.Add(r.ExpectedAmount)
		rollup.Invoiced = rollup.Invoiced.Add(r.InvoicedAmount)
		rollup.Variance = rollup.Variance.Add(r.Variance)
		if r.Status.WorsePriority(rollup.Status) {
			rollup.Status = r.Status
		}
	}

	s.Invoices = make([]InvoiceRollup, 0, len(rollups))
	for _, id := range determinism.SortedKeys(rollups) {
		s.Invoices = append(s.Invoices, *rollups[id])
	}

	return s
}
