package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/repocrawl/internal/markup"
)

// DefaultLinkClassPrefix is the class prefix GitHub's search page puts on
// result title anchors.
const DefaultLinkClassPrefix = "prc-Link-Link"

// LinkMatcher decides whether an anchor is a search result from its class
// tokens, in attribute order.
type LinkMatcher interface {
	Match(classes []string) bool
}

// ClassPrefixMatcher accepts anchors whose class starts with Prefix.
type ClassPrefixMatcher struct {
	// Prefix is the required class name prefix.
	Prefix string

	// AnyToken makes any class token eligible. When false only the first
	// token is examined.
	AnyToken bool
}

// Match implements LinkMatcher.
func (m ClassPrefixMatcher) Match(classes []string) bool {
	if len(classes) == 0 {
		return false
	}
	if !m.AnyToken {
		return strings.HasPrefix(classes[0], m.Prefix)
	}
	for _, class := range classes {
		if strings.HasPrefix(class, m.Prefix) {
			return true
		}
	}
	return false
}

// Extractor pulls result links out of a search page.
type Extractor struct {
	// matcher recognizes result anchors.
	matcher LinkMatcher
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLinkMatcher replaces the default ClassPrefixMatcher.
func WithLinkMatcher(m LinkMatcher) ExtractorOption {
	return func(e *Extractor) {
		if m != nil {
			e.matcher = m
		}
	}
}

// WithLinkClassPrefix keeps the first-token rule but changes the prefix.
func WithLinkClassPrefix(prefix string) ExtractorOption {
	return func(e *Extractor) {
		if prefix != "" {
			e.matcher = ClassPrefixMatcher{Prefix: prefix}
		}
	}
}

// NewExtractor returns an Extractor that matches DefaultLinkClassPrefix on
// the first class token unless configured otherwise.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		matcher: ClassPrefixMatcher{Prefix: DefaultLinkClassPrefix},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the distinct href values of matching anchors in the order
// they first appear. Anchors without a class or without an href are
// ignored. A page with no matches yields an empty, non-nil slice.
func (e *Extractor) Extract(page string) ([]string, error) {
	doc, err := markup.ParseString(page)
	if err != nil {
		return nil, err
	}

	links := make([]string, 0)
	seen := make(map[string]struct{})
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		if !e.matcher.Match(markup.ClassTokens(a)) {
			return
		}
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})
	return links, nil
}
