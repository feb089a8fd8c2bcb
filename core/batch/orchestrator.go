// Package batch runs the audit pipeline over a collection of invoice
// lines with bounded parallelism and fail-soft semantics: one bad
// record never aborts the batch.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"freight-audit/core/audit"
	"freight-audit/core/ratecard"
	"freight-audit/core/types"
	"freight-audit/internal/errors"
	"freight-audit/internal/logging"
)

// Auditor is the per-shipment audit computation the orchestrator fans
// out. *audit.Pipeline is the production implementation.
type Auditor interface {
	Audit(shipment types.Shipment) types.AuditResult
	Snapshot() *ratecard.Snapshot
	Profile() *audit.CarrierProfile
}

// StepBatchOrchestrator names orchestrator-level trace entries
const StepBatchOrchestrator = "batch_orchestrator"

// DefaultWorkers is the worker pool size when none is configured
const DefaultWorkers = 4

// DefaultShipmentTimeout bounds a single shipment's computation so a
// pathological lookup cannot hang the whole batch
const DefaultShipmentTimeout = 10 * time.Second

// Orchestrator fans shipments out over a worker pool. Shipments only
// share the immutable snapshot, so no locking is needed; results are
// stored by input index so output order never depends on completion
// order.
type Orchestrator struct {
	pipeline Auditor
	workers  int
	timeout  time.Duration
	logger   *zap.Logger
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithWorkers sets the worker pool size
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithShipmentTimeout sets the per-shipment timeout
func WithShipmentTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the orchestrator logger
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// NewOrchestrator creates a batch orchestrator around a pipeline
func NewOrchestrator(pipeline Auditor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		pipeline: pipeline,
		workers:  DefaultWorkers,
		timeout:  DefaultShipmentTimeout,
		logger:   logging.Logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run audits every shipment and aggregates the batch. Re-running the
// same batch against the same snapshot produces identical results; a
// run has no side effects on the snapshot. On cancellation, dispatch
// of remaining shipments stops and completed results are returned
// along with the context error.
func (o *Orchestrator) Run(ctx context.Context, shipments []types.Shipment) (*Result, error) {
	start := time.Now()
	o.logger.Info("batch started",
		zap.Int("shipments", len(shipments)),
		zap.String("snapshot", string(o.pipeline.Snapshot().ID())),
		zap.String("carrier", o.pipeline.Profile().Name))

	results := make([]types.AuditResult, len(shipments))
	completed := make([]bool, len(shipments))

	work := make(chan int, len(shipments))
	for i := range shipments {
		work <- i
	}
	close(work)

	workers := o.workers
	if len(shipments) < workers {
		workers = len(shipments)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				select {
				case <-ctx.Done():
					// Stop dispatching; completed results stand
					return
				default:
				}
				results[idx] = o.auditOne(ctx, shipments[idx])
				completed[idx] = true
			}
		}()
	}
	wg.Wait()

	ordered := make([]types.AuditResult, 0, len(shipments))
	for i, done := range completed {
		if done {
			ordered = append(ordered, results[i])
		}
	}

	summary := summarize(ordered, o.pipeline, time.Since(start))
	summary.Dispatched = len(shipments)

	o.logger.Info("batch finished",
		zap.Int("completed", len(ordered)),
		zap.Int("pass", summary.StatusCounts[types.StatusPass]),
		zap.Int("review", summary.StatusCounts[types.StatusReview]),
		zap.Int("overcharge", summary.StatusCounts[types.StatusOvercharge]),
		zap.Int("undercharge", summary.StatusCounts[types.StatusUndercharge]),
		zap.Duration("duration", summary.Duration))

	return &Result{Results: ordered, Summary: summary}, ctx.Err()
}

// auditOne runs the pipeline for a single shipment, bounded by the
// per-shipment timeout, with panics converted to ERROR reviews
func (o *Orchestrator) auditOne(ctx context.Context, shipment types.Shipment) types.AuditResult {
	done := make(chan types.AuditResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- o.errorResult(shipment, errors.Internal("audit panicked", fmt.Errorf("%v", r)))
			}
		}()
		done <- o.pipeline.Audit(shipment)
	}()

	timer := time.NewTimer(o.timeout)
	defer timer.Stop()

	select {
	case result := <-done:
		return result
	case <-timer.C:
		return o.errorResult(shipment, errors.Newf(errors.TypeInternal, "audit exceeded %s timeout", o.timeout))
	case <-ctx.Done():
		return o.errorResult(shipment, errors.Internal("batch cancelled", ctx.Err()))
	}
}

// errorResult converts an orchestration failure into an ERROR review.
// The shipment keeps a result so the gap is visible in aggregates.
func (o *Orchestrator) errorResult(shipment types.Shipment, err error) types.AuditResult {
	o.logger.Warn("shipment errored",
		zap.String("awb", shipment.AWB),
		zap.Error(err))

	return types.AuditResult{
		AWB:            shipment.AWB,
		InvoiceID:      shipment.InvoiceID,
		InvoicedAmount: shipment.InvoicedAmount,
		Currency:       shipment.InvoiceCurrency,
		Status:         types.StatusReview,
		ReviewReason:   string(errors.TypeOf(err)),
		Trace: []types.TraceEntry{{
			Step:   StepBatchOrchestrator,
			Input:  fmt.Sprintf("awb=%s", shipment.AWB),
			Output: err.Error(),
			Note:   "ERROR",
		}},
		SnapshotID:   string(o.pipeline.Snapshot().ID()),
		SnapshotHash: o.pipeline.Snapshot().ContentHash().Hex(),
	}
}
