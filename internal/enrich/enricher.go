package enrich

import (
	"context"
	"strings"

	"github.com/nao1215/repocrawl/internal/model"
	"github.com/nao1215/repocrawl/internal/search"
	"github.com/nao1215/repocrawl/internal/transport"
)

// Enricher turns a repository link into a CrawlResult with owner and
// language statistics.
type Enricher struct {
	fetcher  transport.Fetcher
	baseURL  string
	selector string
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithBaseURL sets the origin that repository links are resolved against.
func WithBaseURL(u string) Option {
	return func(e *Enricher) {
		if u != "" {
			e.baseURL = u
		}
	}
}

// WithLanguageSelector replaces DefaultLanguageSelector.
func WithLanguageSelector(selector string) Option {
	return func(e *Enricher) {
		if selector != "" {
			e.selector = selector
		}
	}
}

// NewEnricher returns an Enricher that resolves links against GitHub.
func NewEnricher(fetcher transport.Fetcher, opts ...Option) *Enricher {
	e := &Enricher{
		fetcher:  fetcher,
		baseURL:  search.DefaultBaseURL,
		selector: DefaultLanguageSelector,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Owner returns the first path segment of a repository link.
func Owner(link string) string {
	owner, _, _ := strings.Cut(strings.Trim(link, "/"), "/")
	return owner
}

// URL returns the absolute repository URL for link.
func (e *Enricher) URL(link string) string {
	return search.AbsoluteURL(e.baseURL, link)
}

// ProcessRepo fetches the repository page for link through pair and returns
// its enriched result. Any failure is a *DetailFetchError.
func (e *Enricher) ProcessRepo(ctx context.Context, link string, pair model.ProxyPair) (model.CrawlResult, error) {
	url := e.URL(link)

	page, err := e.fetcher.Fetch(ctx, url, pair)
	if err != nil {
		return model.CrawlResult{}, &DetailFetchError{Link: link, Err: err}
	}

	stats, err := ParseLanguagesWith(page, e.selector)
	if err != nil {
		return model.CrawlResult{}, &DetailFetchError{Link: link, Err: err}
	}

	return model.NewRepositoryResult(url, Owner(link), stats), nil
}
