package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/andybalholm/cascadia"
	"github.com/nao1215/repocrawl/internal/enrich"
	"github.com/nao1215/repocrawl/internal/model"
	"github.com/nao1215/repocrawl/internal/proxy"
	"github.com/nao1215/repocrawl/internal/search"
	"github.com/nao1215/repocrawl/internal/transport"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "repocrawl"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = transport.DefaultTimeout

	// DefaultWorkers is the number of repository pages fetched concurrently.
	DefaultWorkers = 10

	// DefaultProxyLimit is how many free proxies are collected when none
	// are configured.
	DefaultProxyLimit = proxy.DefaultLimit

	// DefaultResultType is the search type used when none is given.
	DefaultResultType = model.ResultTypeRepositories

	// DefaultMaxBodySize limits how much of a page is read.
	DefaultMaxBodySize = transport.DefaultMaxBodySize

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// DefaultKeywords is the query used when neither the command line nor the
// config file names any keywords.
func DefaultKeywords() []string {
	return []string{"python", "django-rest-framework", "jwt"}
}

// Config holds all configuration options for repocrawl.
// It is populated from defaults, then the config file, then CLI flags,
// and passed down explicitly.
type Config struct {
	// Keywords are the search terms.
	Keywords []string

	// ResultType selects the kind of search result.
	ResultType model.ResultType

	// Proxies is the caller-supplied pool of "ip:port" entries. When empty
	// a pool is discovered from ProxySourceURL.
	Proxies []string

	// ProxyLimit caps the number of discovered proxies.
	ProxyLimit int

	// ProxySourceURL is the page free proxies are scraped from.
	ProxySourceURL string

	// BaseURL is the GitHub origin used for search and repository pages.
	BaseURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Workers is the number of concurrent repository fetches.
	Workers int

	// Ordered returns repository results in extraction order.
	Ordered bool

	// UserAgent is sent with every request. It is picked at random once
	// per process unless configured.
	UserAgent string

	// MaxBodySize is the maximum number of bytes read from a response.
	MaxBodySize int64

	// LinkClassPrefix identifies result anchors on the search page.
	LinkClassPrefix string

	// MatchAnyClass lets any class token of an anchor carry the prefix,
	// not only the first one.
	MatchAnyClass bool

	// LanguageSelector finds language entries on a repository page.
	LanguageSelector string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path given with --config.
	ConfigFilePath string

	// MarkdownReport selects the Markdown report writer.
	// Mutually exclusive with TextReport.
	MarkdownReport bool

	// TextReport selects the human-readable report writer.
	// Mutually exclusive with MarkdownReport.
	TextReport bool

	// ReportFile is the output file path. Empty means stdout.
	ReportFile string

	// FullReport prints the whole crawl report as JSON instead of the
	// result records only. Ignored by the Markdown and text writers.
	FullReport bool

	// TeeReport also writes the report to stdout when ReportFile is set.
	TeeReport bool

	// UseTor routes the crawl through an embedded Tor daemon instead of a
	// free proxy. Its SOCKS address becomes the only pool entry.
	UseTor bool

	// TorStartupTimeout is the maximum time to wait for the embedded Tor
	// daemon.
	TorStartupTimeout time.Duration
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ResultType:        DefaultResultType,
		ProxyLimit:        DefaultProxyLimit,
		ProxySourceURL:    proxy.DefaultSourceURL,
		BaseURL:           search.DefaultBaseURL,
		Timeout:           DefaultTimeout,
		Workers:           DefaultWorkers,
		UserAgent:         transport.RandomUserAgent(),
		MaxBodySize:       DefaultMaxBodySize,
		LinkClassPrefix:   search.DefaultLinkClassPrefix,
		LanguageSelector:  enrich.DefaultLanguageSelector,
		TorStartupTimeout: DefaultTorStartupTimeout,
	}
}

// XDGConfigDir returns the XDG config directory for repocrawl.
// On Linux: ~/.config/repocrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the config file path inside XDGConfigDir.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}

// ApplyFile copies every value set in f into c. Zero values in f leave c
// untouched so flags applied afterwards keep the final say.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if len(f.Keywords) > 0 {
		c.Keywords = append([]string(nil), f.Keywords...)
	}
	if f.Type != "" {
		c.ResultType = model.ResultType(f.Type)
	}
	if len(f.Proxies) > 0 {
		c.Proxies = append([]string(nil), f.Proxies...)
	}
	if f.ProxyLimit != 0 {
		c.ProxyLimit = f.ProxyLimit
	}
	if f.ProxySourceURL != "" {
		c.ProxySourceURL = f.ProxySourceURL
	}
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.Workers != 0 {
		c.Workers = f.Workers
	}
	if f.Ordered {
		c.Ordered = true
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.LinkClassPrefix != "" {
		c.LinkClassPrefix = f.LinkClassPrefix
	}
	if f.MatchAnyClass {
		c.MatchAnyClass = true
	}
	if f.LanguageSelector != "" {
		c.LanguageSelector = f.LanguageSelector
	}
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if len(c.Keywords) == 0 {
		return ErrNoKeywords
	}
	if !c.ResultType.Valid() {
		return &search.InvalidSearchTypeError{
			Value:    c.ResultType.String(),
			Accepted: model.ResultTypes(),
		}
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.ProxyLimit < 0 {
		return ErrInvalidProxyLimit
	}
	if c.MarkdownReport && c.TextReport {
		return ErrConflictingReportFormats
	}
	if c.TeeReport && c.ReportFile == "" {
		return ErrTeeWithoutOutput
	}
	if _, err := cascadia.Compile(c.LanguageSelector); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidLanguageSelector, c.LanguageSelector, err)
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.UseTor && len(c.Proxies) > 0 {
		return ErrConflictingProxySources
	}
	return nil
}
