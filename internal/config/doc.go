// Package config provides configuration structures and utilities for
// repocrawl. It defines the crawl query defaults, network settings, result
// extraction rules and report preferences, and loads overrides from a YAML
// file.
package config
