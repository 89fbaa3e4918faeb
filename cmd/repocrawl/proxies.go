package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/repocrawl/internal/config"
	"github.com/nao1215/repocrawl/internal/log"
	"github.com/nao1215/repocrawl/internal/proxy"
	"github.com/nao1215/repocrawl/internal/transport"
	"github.com/spf13/cobra"
)

// NewProxiesCmd creates the proxies command.
func NewProxiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxies",
		Short: "List HTTPS-capable proxies from free-proxy-list.net",
		Long: `Proxies prints the pool that crawl would discover when no --proxy is
given, one ip:port entry per line.

Examples:
  repocrawl proxies
  repocrawl proxies --limit 3`,
		Args: cobra.NoArgs,
		RunE: runProxiesCmd,
	}

	cmd.Flags().IntP("limit", "l", config.DefaultProxyLimit,
		"Maximum number of proxies to list")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .repocrawl in current directory or XDG config dir)")

	return cmd
}

// runProxiesCmd executes the proxies command.
func runProxiesCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if found := config.FindConfigFile(path); found != "" {
		file, err := config.LoadConfigFile(found)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		cfg.ApplyFile(file)
	} else if path != "" {
		return fmt.Errorf("configuration file not found: %s", path)
	}

	if cmd.Flags().Changed("limit") {
		if cfg.ProxyLimit, err = cmd.Flags().GetInt("limit"); err != nil {
			return err
		}
	}
	if cfg.ProxyLimit < 0 {
		return fmt.Errorf("configuration error: %w", config.ErrInvalidProxyLimit)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := transport.NewHTTPFetcher(
		transport.WithTimeout(cfg.Timeout),
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithLogger(logger),
	)
	supplier := proxy.NewSupplier(fetcher,
		proxy.WithSourceURL(cfg.ProxySourceURL),
		proxy.WithSupplierLogger(logger),
	)

	proxies, err := supplier.FetchFreeProxies(ctx, cfg.ProxyLimit)
	if err != nil {
		return err
	}
	if len(proxies) == 0 {
		logger.Warn("no HTTPS-capable proxies found", "source", cfg.ProxySourceURL)
		return nil
	}

	for _, p := range proxies {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
