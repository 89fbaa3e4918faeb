package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the working
// directory.
const DefaultConfigFile = ".repocrawl"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the YAML configuration file.
type File struct {
	Keywords         []string      `yaml:"keywords,omitempty"`
	Type             string        `yaml:"type,omitempty"`
	Proxies          []string      `yaml:"proxies,omitempty"`
	ProxyLimit       int           `yaml:"proxyLimit,omitempty"`
	ProxySourceURL   string        `yaml:"proxySourceURL,omitempty"`
	BaseURL          string        `yaml:"baseURL,omitempty"`
	Timeout          time.Duration `yaml:"timeout,omitempty"`
	Workers          int           `yaml:"workers,omitempty"`
	Ordered          bool          `yaml:"ordered,omitempty"`
	UserAgent        string        `yaml:"userAgent,omitempty"`
	LinkClassPrefix  string        `yaml:"linkClassPrefix,omitempty"`
	MatchAnyClass    bool          `yaml:"matchAnyClass,omitempty"`
	LanguageSelector string        `yaml:"languageSelector,omitempty"`
}

// LoadConfigFile loads a YAML config file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .repocrawl in the current directory
// 3. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	if _, err := os.Stat(XDGConfigFile()); err == nil {
		return XDGConfigFile()
	}

	return ""
}
