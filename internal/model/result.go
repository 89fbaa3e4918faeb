package model

// LanguageStats maps a language name to the share of the repository it
// accounts for, as a percentage between 0 and 100.
type LanguageStats map[string]float64

// RepositoryExtra is the enrichment attached to a repository search result.
type RepositoryExtra struct {
	// Owner is the first path segment of the repository link.
	Owner string `json:"owner"`

	// LanguageStats is never nil. It is empty when the repository page
	// shows no language bar.
	LanguageStats LanguageStats `json:"language_stats"`
}

// CrawlResult is one record of crawl output.
// Extra is set only for repository searches.
type CrawlResult struct {
	URL   string           `json:"url"`
	Extra *RepositoryExtra `json:"extra,omitempty"`
}

// NewPlainResult returns a result carrying only the absolute URL.
func NewPlainResult(url string) CrawlResult {
	return CrawlResult{URL: url}
}

// NewRepositoryResult returns an enriched result. A nil stats map is
// replaced by an empty one.
func NewRepositoryResult(url, owner string, stats LanguageStats) CrawlResult {
	if stats == nil {
		stats = LanguageStats{}
	}
	return CrawlResult{
		URL: url,
		Extra: &RepositoryExtra{
			Owner:         owner,
			LanguageStats: stats,
		},
	}
}

// IsEnriched reports whether the result carries repository details.
func (r CrawlResult) IsEnriched() bool {
	return r.Extra != nil
}
