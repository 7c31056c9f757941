package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/imgsaveas/internal/model"
)

// Job is one image to convert.
type Job struct {
	URL       string
	FormatKey string
}

// DispatchFunc hands one job to whatever performs it, usually a click on
// the job's format item. It must return only after the work is done; the
// finished conversion is handed back with Report on the context it got.
type DispatchFunc func(ctx context.Context, job Job)

// resultSlotKey is the context key of a job's result slot.
type resultSlotKey struct{}

// Report records conv as the result of the batch job ctx was dispatched
// for. Outside a batch it does nothing.
func Report(ctx context.Context, conv *model.Conversion) {
	if slot, ok := ctx.Value(resultSlotKey{}).(*atomic.Pointer[model.Conversion]); ok {
		slot.Store(conv)
	}
}

// BatchProcessor runs independent conversions concurrently.
// It uses errgroup to manage goroutines and respect the concurrency limit.
type BatchProcessor struct {
	// dispatch starts the work for one job.
	dispatch DispatchFunc

	// concurrency is the maximum number of concurrent conversions.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent conversions.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(dispatch DispatchFunc, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		dispatch:    dispatch,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch dispatches every job and returns the conversions in job order.
// A failed conversion does not stop the others; its error is recorded in
// the returned conversion. A job that produced no conversion, such as a
// click the menu ignored, has a nil entry. The error return is only set on
// cancellation.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []Job) ([]*model.Conversion, error) {
	bp.logger.Debug("starting batch",
		"total", len(jobs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	slots := make([]atomic.Pointer[model.Conversion], len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.dispatch(context.WithValue(ctx, resultSlotKey{}, &slots[i]), job)
			if slots[i].Load() == nil {
				bp.logger.Debug("job produced no conversion",
					"url", job.URL,
					"format_key", job.FormatKey,
				)
			}
			return nil
		})
	}
	err := g.Wait()

	results := make([]*model.Conversion, len(jobs))
	for i := range slots {
		results[i] = slots[i].Load()
	}

	bp.logger.Debug("batch complete",
		"total", len(jobs),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
