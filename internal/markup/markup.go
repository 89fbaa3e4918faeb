// Package markup turns HTML text into a queryable document.
//
// Pages are parsed with golang.org/x/net/html, which copes with the
// malformed markup common on the web, and wrapped in a goquery document so
// callers can select elements with CSS selectors.
package markup

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse reads HTML from r and returns a goquery document.
func Parse(r io.Reader) (*goquery.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// ParseString is Parse for an in-memory page.
func ParseString(s string) (*goquery.Document, error) {
	return Parse(strings.NewReader(s))
}

// ClassTokens returns the whitespace separated tokens of the element's class
// attribute, or nil if it has none.
func ClassTokens(sel *goquery.Selection) []string {
	class, ok := sel.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(class)
}

// Text returns the element's text content with surrounding whitespace removed.
func Text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}
