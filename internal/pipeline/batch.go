package pipeline

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/nao1215/repocrawl/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of repository pages fetched at once.
const DefaultWorkers = 10

// RepoProcessor enriches one repository link. *enrich.Enricher satisfies it.
type RepoProcessor interface {
	ProcessRepo(ctx context.Context, link string, pair model.ProxyPair) (model.CrawlResult, error)
	URL(link string) string
}

// detailOutcome is what one detail task hands back to the collector.
type detailOutcome struct {
	index  int
	link   string
	result model.CrawlResult
	err    error
}

// BatchProcessor enriches many repository links concurrently. Every link is
// an independent task; a failing task is recorded and the rest carry on.
type BatchProcessor struct {
	// processor performs the per-link work.
	processor RepoProcessor

	// concurrency is the maximum number of tasks in flight.
	concurrency int

	// ordered sorts results back into extraction order.
	ordered bool

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

// WithConcurrency sets the maximum number of concurrent detail fetches.
// Default is 10 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithOrdered makes results follow the order links were extracted in
// instead of the order tasks completed in.
func WithOrdered(ordered bool) BatchOption {
	return func(b *BatchProcessor) {
		b.ordered = ordered
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(processor RepoProcessor, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		processor:   processor,
		concurrency: DefaultWorkers,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch enriches every link through pair and adds the outcomes to
// report. Results arrive in completion order unless the processor is
// ordered. Failed links become DetailFailure entries and are logged.
//
// Task errors never reach the errgroup, so one failure does not cancel the
// others. The only error returned is the context's, when the crawl was
// cancelled before every task ran.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, report *model.CrawlReport, links []string, pair model.ProxyPair) error {
	bp.logger.Info("starting detail fetches",
		"run_id", report.RunID,
		"total_links", len(links),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	outcomes := make(chan detailOutcome)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	// The producer runs beside the collector so Go can block on the limit
	// while outcomes are being drained.
	go func() {
		defer close(outcomes)
		for i, link := range links {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				result, err := bp.processor.ProcessRepo(gctx, link, pair)
				outcomes <- detailOutcome{index: i, link: link, result: result, err: err}
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // tasks never return an error
	}()

	collected := make([]detailOutcome, 0, len(links))
	for outcome := range outcomes {
		if outcome.err != nil {
			bp.logger.Warn("dropping repository",
				"run_id", report.RunID,
				"link", outcome.link,
				"error", outcome.err,
			)
			report.AddFailure(outcome.link, bp.processor.URL(outcome.link), outcome.err)
			continue
		}
		collected = append(collected, outcome)
	}

	if bp.ordered {
		slices.SortStableFunc(collected, func(a, b detailOutcome) int {
			return a.index - b.index
		})
	}
	for _, outcome := range collected {
		report.AddResult(outcome.result)
	}

	bp.logger.Info("detail fetches complete",
		"run_id", report.RunID,
		"succeeded", len(collected),
		"failed", len(report.Failures),
		"elapsed", time.Since(startTime),
	)

	return ctx.Err()
}
