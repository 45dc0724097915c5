package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/urlprint/internal/model"
)

// DefaultConcurrency is used when WithConcurrency is not given.
const DefaultConcurrency = 4

// Comparer compares two URLs. *compare.Comparator implements it.
type Comparer interface {
	Compare(ctx context.Context, url1, url2 string, bits, keepBytes int) (*model.ComparisonReport, error)
}

// Result is the outcome of one pair.
type Result struct {
	Pair Pair

	// Report is nil when Err is set.
	Report *model.ComparisonReport

	// Err is a comparator rejection (such as an empty URL) or the batch
	// context's error for pairs that never ran.
	Err error
}

// BatchProcessor compares many pairs concurrently.
// It uses errgroup to manage goroutines and respect the concurrency limit.
type BatchProcessor struct {
	comparer    Comparer
	bits        int
	keepBytes   int
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of pairs compared at once.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor that compares every pair with
// the same bits and keepBytes.
func NewBatchProcessor(comparer Comparer, bits, keepBytes int, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		comparer:    comparer,
		bits:        bits,
		keepBytes:   keepBytes,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch compares all pairs and returns one Result per pair, in input
// order. The error is non-nil only when ctx was cancelled; the Results of
// pairs that did not run then carry that error.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, pairs []Pair) ([]Result, error) {
	results := make([]Result, len(pairs))
	err := bp.ProcessBatchWithCallback(ctx, pairs, func(r Result, index int) {
		// Each index is written by exactly one goroutine.
		results[index] = r
	})
	return results, err
}

// ProcessBatchWithCallback compares all pairs and calls callback once per
// pair as soon as it finishes. The callback is invoked from worker
// goroutines and must be safe for concurrent use.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it is simpler and errgroup handles the concurrency correctly.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	pairs []Pair,
	callback func(result Result, index int),
) error {
	bp.logger.Info("starting batch comparison",
		"total_pairs", len(pairs),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, pair := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				callback(Result{Pair: pair, Err: err}, i)
				return err
			}

			report, err := bp.comparer.Compare(ctx, pair.URL1, pair.URL2, bp.bits, bp.keepBytes)
			if err != nil {
				bp.logger.Warn("pair rejected",
					"line", pair.Line,
					"error", err,
				)
			} else {
				bp.logger.Info("pair compared",
					"line", pair.Line,
					"exact", report.Exact.Outcome().String(),
					"perceptual", report.Perceptual.Outcome().String(),
				)
			}
			callback(Result{Pair: pair, Report: report, Err: err}, i)

			// A rejected pair must not cancel its siblings.
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch comparison complete",
		"total_pairs", len(pairs),
		"elapsed", time.Since(startTime),
	)
	return err
}

// NewBatchReport converts results into the report model, keeping their order.
func NewBatchReport(results []Result) *model.BatchReport {
	br := &model.BatchReport{Entries: make([]model.BatchEntry, 0, len(results))}
	for _, r := range results {
		entry := model.BatchEntry{
			Line:   r.Pair.Line,
			URL1:   r.Pair.URL1,
			URL2:   r.Pair.URL2,
			Report: r.Report,
		}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		br.Entries = append(br.Entries, entry)
	}
	br.Summary = Summarize(results)
	return br
}

// Summarize counts the outcomes of results.
func Summarize(results []Result) model.Summary {
	var s model.Summary
	for _, r := range results {
		s.Add(r.Report)
	}
	return s
}
