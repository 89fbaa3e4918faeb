package enrich

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/repocrawl/internal/markup"
	"github.com/nao1215/repocrawl/internal/model"
)

// DefaultLanguageSelector matches the entries of the language bar on a
// repository page.
const DefaultLanguageSelector = "li.d-inline a, span.d-inline-flex"

// ParseLanguages extracts language percentages with DefaultLanguageSelector.
func ParseLanguages(page string) (model.LanguageStats, error) {
	return ParseLanguagesWith(page, DefaultLanguageSelector)
}

// ParseLanguagesWith extracts language percentages from the elements
// matched by selector. Each element needs at least two descendant spans:
// the first holds the name, the second the percentage ("80.0%"). The first
// occurrence of a name wins. A percentage that does not parse, or falls
// outside 0..100 (NaN and infinities included), fails the whole page.
func ParseLanguagesWith(page, selector string) (model.LanguageStats, error) {
	doc, err := markup.ParseString(page)
	if err != nil {
		return nil, err
	}

	stats := make(model.LanguageStats)
	var parseErr error
	doc.Find(selector).EachWithBreak(func(_ int, entry *goquery.Selection) bool {
		spans := entry.Find("span")
		if spans.Length() < 2 {
			return true
		}
		name := markup.Text(spans.Eq(0))
		if _, seen := stats[name]; seen {
			return true
		}
		raw := strings.Trim(markup.Text(spans.Eq(1)), "%")
		percent, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(percent) || percent < 0 || percent > 100 {
			parseErr = fmt.Errorf("%w: %q for %q", ErrInvalidPercentage, raw, name)
			return false
		}
		stats[name] = percent
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return stats, nil
}
