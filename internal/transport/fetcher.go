package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/nao1215/repocrawl/internal/model"
	"golang.org/x/net/proxy"
)

const (
	// DefaultTimeout bounds every request, including reading the body.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize caps how much of a response is read.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024

	// maxRedirects stops redirect loops.
	maxRedirects = 10
)

// Fetcher retrieves the body of a page. A zero ProxyPair means a direct
// connection.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, pair model.ProxyPair) (string, error)
}

// HTTPFetcher is the net/http Fetcher.
type HTTPFetcher struct {
	// timeout is the per-request timeout.
	timeout time.Duration

	// userAgent is sent on every request.
	userAgent string

	// maxBodySize is the largest body accepted.
	maxBodySize int64

	// logger receives request level debug output.
	logger *slog.Logger

	// clients caches one client per proxy pair.
	clients map[model.ProxyPair]*http.Client
	mu      sync.Mutex
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header. An empty value keeps the
// randomly chosen default.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the response size limit.
func WithMaxBodySize(n int64) Option {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *HTTPFetcher) {
		f.logger = logger
	}
}

// NewHTTPFetcher returns an HTTPFetcher with a 10 second timeout and a
// random browser User-Agent.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		timeout:     DefaultTimeout,
		userAgent:   RandomUserAgent(),
		maxBodySize: DefaultMaxBodySize,
		clients:     make(map[model.ProxyPair]*http.Client),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// UserAgent returns the User-Agent sent with every request.
func (f *HTTPFetcher) UserAgent() string {
	return f.userAgent
}

// Fetch GETs rawURL through pair and returns the body. Responses outside
// 2xx produce a *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, pair model.ProxyPair) (string, error) {
	client, err := f.client(pair)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", rawURL, err)
	}

	f.logger.Debug("fetching page", "url", rawURL, "proxy", pair.HTTP)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		return "", &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read body of %s: %w", rawURL, err)
	}
	if int64(len(body)) > f.maxBodySize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, rawURL, f.maxBodySize)
	}
	return string(body), nil
}

// client returns the cached client for pair, building it on first use.
func (f *HTTPFetcher) client(pair model.ProxyPair) (*http.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[pair]; ok {
		return c, nil
	}

	rt, err := newRoundTripper(pair)
	if err != nil {
		return nil, err
	}

	c := &http.Client{
		Transport: &userAgentTransport{base: rt, userAgent: f.userAgent},
		Timeout:   f.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	f.clients[pair] = c
	return c, nil
}

// newRoundTripper builds the transport for pair. TLS verification stays on.
func newRoundTripper(pair model.ProxyPair) (*http.Transport, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, errors.New("http.DefaultTransport is not *http.Transport")
	}
	t := base.Clone()

	if pair.IsZero() {
		t.Proxy = nil
		return t, nil
	}

	httpURL, err := parseProxyURL(pair.For("http"))
	if err != nil {
		return nil, err
	}
	httpsURL, err := parseProxyURL(pair.For("https"))
	if err != nil {
		return nil, err
	}

	if httpURL != nil && httpURL.Scheme == "socks5" {
		dialer, err := proxy.FromURL(httpURL, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
		}
		t.Proxy = nil
		t.DialContext = contextDialer(dialer)
		return t, nil
	}

	t.Proxy = func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" {
			return httpsURL, nil
		}
		return httpURL, nil
	}
	return t, nil
}

// parseProxyURL parses one half of a proxy pair. Empty means no proxy.
func parseProxyURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil //nolint:nilnil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidProxy, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidProxy, u.Redacted())
	}
	return u, nil
}

// contextDialer adapts a proxy.Dialer to http.Transport.DialContext. If the
// dialer cannot take a context the dial runs in a goroutine and the caller
// stops waiting on cancellation.
func contextDialer(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)
		go func() {
			conn, err := d.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()
		select {
		case r := <-resultCh:
			return r.conn, r.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// userAgentTransport sets the User-Agent on every outgoing request.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

// RoundTrip implements http.RoundTripper.
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	clone.Header.Set("Accept", "text/html,application/xhtml+xml")
	return t.base.RoundTrip(clone)
}
