package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nao1215/repocrawl/internal/config"
	"github.com/nao1215/repocrawl/internal/enrich"
	"github.com/nao1215/repocrawl/internal/log"
	"github.com/nao1215/repocrawl/internal/model"
	"github.com/nao1215/repocrawl/internal/pipeline"
	"github.com/nao1215/repocrawl/internal/proxy"
	"github.com/nao1215/repocrawl/internal/report"
	"github.com/nao1215/repocrawl/internal/search"
	"github.com/nao1215/repocrawl/internal/tor"
	"github.com/nao1215/repocrawl/internal/transport"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [keywords...]",
		Short: "Search GitHub and print the results",
		Long: `Crawl fetches the GitHub search page for the given keywords and prints
one JSON record per result.

Without keywords, the keywords from the configuration file are used,
or "python django-rest-framework jwt" when there is none.

For --type Repositories every result page is fetched as well, and the
record gets an "extra" object with the owner and the language shares.
Repositories whose page cannot be fetched are logged and left out.

Examples:
  # Search repositories through a given proxy
  repocrawl crawl --proxy 203.0.113.10:8080 python jwt

  # Search issues with proxies discovered from free-proxy-list.net
  repocrawl crawl --type issues bug

  # Route everything through an embedded Tor daemon
  repocrawl crawl --tor golang

  # Markdown report with language charts written to a file
  repocrawl crawl --markdown -o report.md golang cli`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("type", "t", string(config.DefaultResultType),
		"Result type: Repositories, Issues or Wikis (case-insensitive)")
	cmd.Flags().StringSliceP("proxy", "p", nil,
		"Proxy pool entry as ip:port (repeatable; discovered when empty)")
	cmd.Flags().Int("proxy-limit", config.DefaultProxyLimit,
		"Number of proxies to discover when no --proxy is given")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of repository pages fetched concurrently")
	cmd.Flags().Bool("ordered", false,
		"Print repository results in search order instead of completion order")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().String("user-agent", "",
		"User-Agent header (default: a random browser User-Agent)")

	cmd.Flags().Bool("tor", false,
		"Start an embedded Tor daemon and use it as the only proxy")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .repocrawl in current directory or XDG config dir)")

	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown report (mutually exclusive with --text)")
	cmd.Flags().Bool("text", false,
		"Output a plain text report (mutually exclusive with --markdown)")
	cmd.Flags().Bool("full", false,
		"Output the whole crawl report as JSON instead of the results only")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("tee", false,
		"With -o, also print the report to stdout")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	crawlReport, err := runCrawl(ctx, cfg, logger)
	if err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), cfg, crawlReport)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig layers defaults, the configuration file and the flags that
// were set explicitly, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path that does not exist is an error; a missing default
	// file is not.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if len(args) > 0 {
		cfg.Keywords = args
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = config.DefaultKeywords()
	}

	if flags.Changed("type") {
		v, err := flags.GetString("type")
		if err != nil {
			return nil, err
		}
		cfg.ResultType = model.ResultType(v)
	}
	cfg.ResultType = normalizeResultType(cfg.ResultType)

	if flags.Changed("proxy") {
		if cfg.Proxies, err = flags.GetStringSlice("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy-limit") {
		if cfg.ProxyLimit, err = flags.GetInt("proxy-limit"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("ordered") {
		if cfg.Ordered, err = flags.GetBool("ordered"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}

	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.TextReport, err = flags.GetBool("text"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.FullReport, err = flags.GetBool("full"); err != nil {
		return nil, err
	}
	if cfg.TeeReport, err = flags.GetBool("tee"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// normalizeResultType maps "issues" or "ISSUES" to "Issues". Values that
// do not name a known type are returned title-cased and fail validation.
func normalizeResultType(t model.ResultType) model.ResultType {
	v := strings.TrimSpace(string(t))
	if v == "" {
		return t
	}
	return model.ResultType(cases.Title(language.English).String(strings.ToLower(v)))
}

// runCrawl sets up transport and proxies and runs one crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*model.CrawlReport, error) {
	if cfg.UseTor {
		embedded, err := startEmbeddedTor(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		defer func() {
			logger.Info("stopping embedded Tor daemon")
			if err := embedded.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor", "error", err)
			}
		}()

		entry, err := embedded.ProxyEntry()
		if err != nil {
			return nil, err
		}
		cfg.Proxies = []string{entry}
	}

	fetcher := transport.NewHTTPFetcher(
		transport.WithTimeout(cfg.Timeout),
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithMaxBodySize(cfg.MaxBodySize),
		transport.WithLogger(logger),
	)

	crawler := newCrawler(cfg, fetcher, logger)

	crawlReport, err := crawler.Crawl(ctx, cfg.Keywords, cfg.Proxies, cfg.ResultType)
	if err != nil {
		return nil, fmt.Errorf("crawl failed: %w", err)
	}
	return crawlReport, nil
}

// newCrawler wires the crawl components from cfg.
func newCrawler(cfg *config.Config, fetcher transport.Fetcher, logger *slog.Logger) *pipeline.Crawler {
	supplier := proxy.NewSupplier(fetcher,
		proxy.WithSourceURL(cfg.ProxySourceURL),
		proxy.WithSupplierLogger(logger),
	)

	extractor := search.NewExtractor(search.WithLinkMatcher(search.ClassPrefixMatcher{
		Prefix:   cfg.LinkClassPrefix,
		AnyToken: cfg.MatchAnyClass,
	}))

	enricher := enrich.NewEnricher(fetcher,
		enrich.WithBaseURL(cfg.BaseURL),
		enrich.WithLanguageSelector(cfg.LanguageSelector),
	)

	return pipeline.NewCrawler(fetcher,
		pipeline.WithBaseURL(cfg.BaseURL),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithOrderedResults(cfg.Ordered),
		pipeline.WithProxyLimit(cfg.ProxyLimit),
		pipeline.WithProxySupplier(supplier),
		pipeline.WithLinkExtractor(extractor),
		pipeline.WithRepoProcessor(enricher),
		pipeline.WithCrawlerLogger(logger),
	)
}

// startEmbeddedTor starts the daemon and checks that its SOCKS port answers.
func startEmbeddedTor(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*tor.EmbeddedTor, error) {
	logger.Info("starting embedded Tor daemon", "timeout", cfg.TorStartupTimeout)
	fmt.Fprintln(os.Stderr, "Starting embedded Tor daemon (this may take a few minutes)...")

	embedded := tor.NewEmbeddedTor(
		tor.WithStartupTimeout(cfg.TorStartupTimeout),
		tor.WithLogger(logger),
	)
	if err := embedded.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	if err := tor.CheckSOCKS(ctx, embedded.SocksAddr()); err != nil {
		_ = embedded.Stop()
		return nil, fmt.Errorf("embedded Tor is not usable: %w", err)
	}

	logger.Info("embedded Tor ready", "socks", embedded.SocksAddr())
	return embedded, nil
}

// newReportWriter picks the writer for the requested format.
func newReportWriter(w io.Writer, cfg *config.Config) report.Writer {
	switch {
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	case cfg.TextReport:
		return report.NewTextWriter(w, report.WithVerbose(cfg.Verbose))
	case cfg.FullReport:
		return report.NewFullJSONWriter(w, getVersion(), report.WithPrettyPrint())
	default:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	}
}

// writeReport writes the report to cfg.ReportFile, or to stdout when unset.
// With TeeReport the same rendering goes to both.
func writeReport(stdout io.Writer, cfg *config.Config, crawlReport *model.CrawlReport) error {
	if cfg.ReportFile == "" {
		_, err := newReportWriter(stdout, cfg).Write(crawlReport)
		return err
	}

	var sb strings.Builder
	writers := []report.Writer{newReportWriter(&sb, cfg)}
	if cfg.TeeReport {
		writers = append(writers, newReportWriter(stdout, cfg))
	}
	if _, err := report.NewMultiWriter(writers...).Write(crawlReport); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if err := writeFile(cfg.ReportFile, []byte(sb.String())); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if !cfg.TeeReport {
		fmt.Fprintf(stdout, "Report written to %s\n", cfg.ReportFile)
	}
	return nil
}
