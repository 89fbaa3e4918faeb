// Package search builds GitHub search URLs and extracts result links from
// the returned search page.
//
// The result extractor recognizes result anchors by their CSS class. GitHub
// generates those class names, so the recognition rule is a LinkMatcher that
// callers can replace without touching the extractor.
package search
