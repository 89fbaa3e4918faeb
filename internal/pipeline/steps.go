package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/repocrawl/internal/model"
	"github.com/nao1215/repocrawl/internal/proxy"
	"github.com/nao1215/repocrawl/internal/search"
	"github.com/nao1215/repocrawl/internal/transport"
)

// ProxySupplier discovers proxies when the caller gave none.
// *proxy.Supplier satisfies it.
type ProxySupplier interface {
	FetchFreeProxies(ctx context.Context, limit int) ([]string, error)
}

// ProxySelector picks one proxy pair from a pool.
type ProxySelector func(pool []string) (model.ProxyPair, error)

// LinkExtractor pulls result links out of a search page.
// *search.Extractor satisfies it.
type LinkExtractor interface {
	Extract(page string) ([]string, error)
}

// BuildQueryStep validates the query and renders the search URL.
type BuildQueryStep struct {
	baseURL string
}

// NewBuildQueryStep creates a step that builds URLs under baseURL.
func NewBuildQueryStep(baseURL string) *BuildQueryStep {
	if baseURL == "" {
		baseURL = search.DefaultBaseURL
	}
	return &BuildQueryStep{baseURL: baseURL}
}

// Name returns the step name.
func (s *BuildQueryStep) Name() string {
	return "build_query"
}

// Do executes the step.
func (s *BuildQueryStep) Do(_ context.Context, report *model.CrawlReport) error {
	query, err := search.NewQuery(report.Query.Keywords, report.Query.Type)
	if err != nil {
		return err
	}
	report.Query = query
	report.SearchURL = search.QueryURL(s.baseURL, query)
	return nil
}

// ProxyPoolStep fills an empty proxy pool from a ProxySupplier.
type ProxyPoolStep struct {
	supplier ProxySupplier
	limit    int
	logger   *slog.Logger
}

// NewProxyPoolStep creates a step that asks supplier for up to limit
// proxies when the report has none.
func NewProxyPoolStep(supplier ProxySupplier, limit int, logger *slog.Logger) *ProxyPoolStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProxyPoolStep{supplier: supplier, limit: limit, logger: logger}
}

// Name returns the step name.
func (s *ProxyPoolStep) Name() string {
	return "obtain_proxy_pool"
}

// Do executes the step.
func (s *ProxyPoolStep) Do(ctx context.Context, report *model.CrawlReport) error {
	if len(report.ProxyPool) > 0 {
		return nil
	}
	pool, err := s.supplier.FetchFreeProxies(ctx, s.limit)
	if err != nil {
		return err
	}
	s.logger.Info("discovered free proxies", "run_id", report.RunID, "count", len(pool))
	report.ProxyPool = pool
	return nil
}

// SelectProxyStep chooses the proxy used for the whole crawl.
type SelectProxyStep struct {
	selector ProxySelector
}

// NewSelectProxyStep creates the step. A nil selector means proxy.Select.
func NewSelectProxyStep(selector ProxySelector) *SelectProxyStep {
	if selector == nil {
		selector = proxy.Select
	}
	return &SelectProxyStep{selector: selector}
}

// Name returns the step name.
func (s *SelectProxyStep) Name() string {
	return "select_proxy"
}

// Do executes the step.
func (s *SelectProxyStep) Do(_ context.Context, report *model.CrawlReport) error {
	pair, err := s.selector(report.ProxyPool)
	if err != nil {
		return err
	}
	report.Proxy = pair
	return nil
}

// FetchSearchStep downloads the search results page through the chosen proxy.
type FetchSearchStep struct {
	fetcher transport.Fetcher
}

// NewFetchSearchStep creates the step.
func NewFetchSearchStep(fetcher transport.Fetcher) *FetchSearchStep {
	return &FetchSearchStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *FetchSearchStep) Name() string {
	return "fetch_search_page"
}

// Do executes the step.
func (s *FetchSearchStep) Do(ctx context.Context, report *model.CrawlReport) error {
	page, err := s.fetcher.Fetch(ctx, report.SearchURL, report.Proxy)
	if err != nil {
		return fmt.Errorf("failed to fetch search page: %w", err)
	}
	report.SearchPage = page
	return nil
}

// ExtractResultsStep parses the search page into result links.
type ExtractResultsStep struct {
	extractor LinkExtractor
}

// NewExtractResultsStep creates the step. A nil extractor means
// search.NewExtractor().
func NewExtractResultsStep(extractor LinkExtractor) *ExtractResultsStep {
	if extractor == nil {
		extractor = search.NewExtractor()
	}
	return &ExtractResultsStep{extractor: extractor}
}

// Name returns the step name.
func (s *ExtractResultsStep) Name() string {
	return "extract_results"
}

// Do executes the step.
func (s *ExtractResultsStep) Do(_ context.Context, report *model.CrawlReport) error {
	links, err := s.extractor.Extract(report.SearchPage)
	if err != nil {
		return fmt.Errorf("failed to extract results: %w", err)
	}
	report.Links = links
	return nil
}

// EnrichDetailsStep turns links into results. Repository searches go
// through the BatchProcessor; other types become bare URLs.
type EnrichDetailsStep struct {
	batch   *BatchProcessor
	baseURL string
}

// NewEnrichDetailsStep creates the step.
func NewEnrichDetailsStep(batch *BatchProcessor, baseURL string) *EnrichDetailsStep {
	if baseURL == "" {
		baseURL = search.DefaultBaseURL
	}
	return &EnrichDetailsStep{batch: batch, baseURL: baseURL}
}

// Name returns the step name.
func (s *EnrichDetailsStep) Name() string {
	return "enrich_details"
}

// Do executes the step.
func (s *EnrichDetailsStep) Do(ctx context.Context, report *model.CrawlReport) error {
	if !report.Query.Type.IsRepositories() {
		for _, link := range report.Links {
			report.AddResult(model.NewPlainResult(search.AbsoluteURL(s.baseURL, link)))
		}
		return nil
	}
	return s.batch.ProcessBatch(ctx, report, report.Links, report.Proxy)
}
