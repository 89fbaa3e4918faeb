package proxy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/repocrawl/internal/markup"
	"github.com/nao1215/repocrawl/internal/model"
	"github.com/nao1215/repocrawl/internal/transport"
)

const (
	// DefaultSourceURL is the public proxy list scraped by FetchFreeProxies.
	DefaultSourceURL = "https://free-proxy-list.net/"

	// DefaultLimit is used when FetchFreeProxies is called with limit <= 0.
	DefaultLimit = 10

	// Column layout of the proxy table.
	columnIP     = 0
	columnPort   = 1
	columnHTTPS  = 6
	minimumCells = 7
)

// Supplier scrapes a proxy list page.
type Supplier struct {
	// fetcher downloads the list page. It is always called without a proxy.
	fetcher transport.Fetcher

	// sourceURL is the list page address.
	sourceURL string

	logger *slog.Logger
}

// SupplierOption configures a Supplier.
type SupplierOption func(*Supplier)

// WithSourceURL overrides DefaultSourceURL.
func WithSourceURL(u string) SupplierOption {
	return func(s *Supplier) {
		if u != "" {
			s.sourceURL = u
		}
	}
}

// WithSupplierLogger sets the logger.
func WithSupplierLogger(logger *slog.Logger) SupplierOption {
	return func(s *Supplier) {
		s.logger = logger
	}
}

// NewSupplier returns a Supplier that reads DefaultSourceURL through fetcher.
func NewSupplier(fetcher transport.Fetcher, opts ...SupplierOption) *Supplier {
	s := &Supplier{
		fetcher:   fetcher,
		sourceURL: DefaultSourceURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// FetchFreeProxies returns up to limit "ip:port" entries for proxies that
// support HTTPS, in table order. A page without a proxy table yields an
// empty slice. Fetch failures are returned.
func (s *Supplier) FetchFreeProxies(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	page, err := s.fetcher.Fetch(ctx, s.sourceURL, model.ProxyPair{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch proxy list: %w", err)
	}

	proxies, err := ParseProxyTable(page, limit)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("collected free proxies", "source", s.sourceURL, "count", len(proxies))
	return proxies, nil
}

// ParseProxyTable reads the first table inside div.table-responsive. Rows
// with fewer than seven cells are skipped, and a row is admitted when its
// HTTPS column reads "yes" in any case. Parsing stops once limit entries
// were collected.
func ParseProxyTable(page string, limit int) ([]string, error) {
	doc, err := markup.ParseString(page)
	if err != nil {
		return nil, err
	}

	proxies := make([]string, 0, limit)
	table := doc.Find("div.table-responsive table").First()
	if table.Length() == 0 {
		return proxies, nil
	}

	table.Find("tbody tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < minimumCells {
			return true
		}
		if !strings.EqualFold(markup.Text(cells.Eq(columnHTTPS)), "yes") {
			return true
		}
		ip := markup.Text(cells.Eq(columnIP))
		port := markup.Text(cells.Eq(columnPort))
		proxies = append(proxies, ip+":"+port)
		return len(proxies) < limit
	})
	return proxies, nil
}
