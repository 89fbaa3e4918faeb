package model

import (
	"time"

	"github.com/google/uuid"
)

// CrawlReport is the state a crawl builds up as it moves through the
// pipeline: query, proxy choice, extracted links and the final results.
//
// A CrawlReport is owned by a single goroutine. The detail fan-out funnels
// its outcomes through a channel and only the collecting goroutine calls
// AddResult and AddFailure.
type CrawlReport struct {
	// RunID identifies this crawl in logs and reports.
	RunID string `json:"run_id"`

	// Query is the validated search query.
	Query SearchQuery `json:"query"`

	// SearchURL is the URL of the search results page.
	SearchURL string `json:"search_url,omitempty"`

	// ProxyPool is the pool the proxy was selected from. It holds the
	// caller-supplied entries or, if none were given, the discovered ones.
	ProxyPool []string `json:"proxy_pool,omitempty"`

	// Proxy is the pair used for the search page and every detail fetch.
	Proxy ProxyPair `json:"proxy"`

	// SearchPage is the raw markup of the search results page.
	SearchPage string `json:"-"`

	// Links are the distinct result links in the order they were extracted.
	Links []string `json:"links,omitempty"`

	// Results holds one record per successful result, in collection order.
	Results []CrawlResult `json:"results"`

	// Failures records the detail fetches that were dropped.
	Failures []DetailFailure `json:"failures,omitempty"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the wall time of the whole crawl.
	Elapsed time.Duration `json:"elapsed"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the error that aborted the crawl, if any.
	Error error `json:"-"`

	// ErrorMessage is Error rendered for JSON output.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// DetailFailure describes a repository whose detail fetch failed.
// The repository is left out of Results.
type DetailFailure struct {
	Link  string `json:"link"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

// NewCrawlReport creates a report for the given query with a fresh run ID.
func NewCrawlReport(query SearchQuery) *CrawlReport {
	return &CrawlReport{
		RunID:     uuid.NewString(),
		Query:     query,
		Results:   make([]CrawlResult, 0),
		StartedAt: time.Now(),
	}
}

// AddResult appends a result.
func (r *CrawlReport) AddResult(result CrawlResult) {
	r.Results = append(r.Results, result)
}

// AddFailure records a dropped detail fetch.
func (r *CrawlReport) AddFailure(link, url string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	r.Failures = append(r.Failures, DetailFailure{
		Link:  link,
		URL:   url,
		Error: msg,
	})
}

// SetError records the error that aborted the crawl.
func (r *CrawlReport) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Finish stamps the elapsed time.
func (r *CrawlReport) Finish() {
	r.Elapsed = time.Since(r.StartedAt)
}

// Succeeded reports whether the crawl ran to completion. Dropped detail
// fetches do not count as a failure of the crawl.
func (r *CrawlReport) Succeeded() bool {
	return r.Error == nil
}
