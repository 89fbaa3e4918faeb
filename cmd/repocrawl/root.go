package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for repocrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repocrawl",
		Short: "Crawl GitHub search results through rotating proxies",
		Long: `repocrawl fetches the first page of GitHub search results for a set of
keywords and prints the result URLs as JSON.

Requests go through one HTTP proxy picked at random from the pool given
with --proxy. When no proxy is given, a pool is discovered from
free-proxy-list.net. For repository searches every result is enriched
with its owner and language statistics.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewProxiesCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
