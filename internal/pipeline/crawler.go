package pipeline

import (
	"context"
	"log/slog"
	"slices"

	"github.com/nao1215/repocrawl/internal/enrich"
	"github.com/nao1215/repocrawl/internal/model"
	"github.com/nao1215/repocrawl/internal/proxy"
	"github.com/nao1215/repocrawl/internal/search"
	"github.com/nao1215/repocrawl/internal/transport"
)

// Crawler runs a complete GitHub search crawl.
type Crawler struct {
	fetcher    transport.Fetcher
	supplier   ProxySupplier
	selector   ProxySelector
	extractor  LinkExtractor
	processor  RepoProcessor
	baseURL    string
	workers    int
	ordered    bool
	proxyLimit int
	logger     *slog.Logger
}

// CrawlerOption configures a Crawler.
type CrawlerOption func(*Crawler)

// WithBaseURL sets the GitHub origin. Used by tests to target a local server.
func WithBaseURL(u string) CrawlerOption {
	return func(c *Crawler) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithWorkers sets how many repository pages are fetched at once.
func WithWorkers(n int) CrawlerOption {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithOrderedResults returns repository results in extraction order rather
// than completion order.
func WithOrderedResults(ordered bool) CrawlerOption {
	return func(c *Crawler) {
		c.ordered = ordered
	}
}

// WithProxyLimit sets how many proxies are discovered when none are given.
func WithProxyLimit(n int) CrawlerOption {
	return func(c *Crawler) {
		c.proxyLimit = n
	}
}

// WithProxySupplier replaces the free-proxy-list supplier.
func WithProxySupplier(s ProxySupplier) CrawlerOption {
	return func(c *Crawler) {
		c.supplier = s
	}
}

// WithProxySelector replaces proxy.Select.
func WithProxySelector(s ProxySelector) CrawlerOption {
	return func(c *Crawler) {
		c.selector = s
	}
}

// WithLinkExtractor replaces the default search.Extractor.
func WithLinkExtractor(e LinkExtractor) CrawlerOption {
	return func(c *Crawler) {
		c.extractor = e
	}
}

// WithRepoProcessor replaces the default enrich.Enricher.
func WithRepoProcessor(p RepoProcessor) CrawlerOption {
	return func(c *Crawler) {
		c.processor = p
	}
}

// WithCrawlerLogger sets the logger used by the crawler and its steps.
func WithCrawlerLogger(logger *slog.Logger) CrawlerOption {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// NewCrawler returns a Crawler that does all network access through fetcher.
// Collaborators not set by options are built from fetcher.
func NewCrawler(fetcher transport.Fetcher, opts ...CrawlerOption) *Crawler {
	c := &Crawler{
		fetcher:    fetcher,
		baseURL:    search.DefaultBaseURL,
		workers:    DefaultWorkers,
		proxyLimit: proxy.DefaultLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.supplier == nil {
		c.supplier = proxy.NewSupplier(fetcher, proxy.WithSupplierLogger(c.logger))
	}
	if c.extractor == nil {
		c.extractor = search.NewExtractor()
	}
	if c.processor == nil {
		c.processor = enrich.NewEnricher(fetcher, enrich.WithBaseURL(c.baseURL))
	}
	return c
}

// Pipeline returns the step sequence of one crawl.
func (c *Crawler) Pipeline() *Pipeline {
	batch := NewBatchProcessor(c.processor,
		WithConcurrency(c.workers),
		WithOrdered(c.ordered),
		WithBatchLogger(c.logger),
	)

	p := New(WithLogger(c.logger))
	p.AddSteps(
		NewBuildQueryStep(c.baseURL),
		NewProxyPoolStep(c.supplier, c.proxyLimit, c.logger),
		NewSelectProxyStep(c.selector),
		NewFetchSearchStep(c.fetcher),
		NewExtractResultsStep(c.extractor),
		NewEnrichDetailsStep(batch, c.baseURL),
	)
	return p
}

// Crawl searches GitHub for keywords and returns the report. An empty
// proxies slice triggers proxy discovery. The returned report is never nil;
// on error it holds whatever was gathered before the failing step.
func (c *Crawler) Crawl(ctx context.Context, keywords, proxies []string, resultType model.ResultType) (*model.CrawlReport, error) {
	report := model.NewCrawlReport(model.SearchQuery{
		Keywords: keywords,
		Type:     resultType,
	})
	report.ProxyPool = slices.Clone(proxies)

	c.logger.Info("starting crawl",
		"run_id", report.RunID,
		"keywords", keywords,
		"type", resultType,
	)

	err := c.Pipeline().Execute(ctx, report)
	report.Finish()
	if err != nil {
		return report, err
	}

	c.logger.Info("crawl complete",
		"run_id", report.RunID,
		"results", len(report.Results),
		"dropped", len(report.Failures),
		"elapsed", report.Elapsed,
	)
	return report, nil
}
