package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoKeywords is returned when there is nothing to search for.
	ErrNoKeywords = errors.New("no keywords specified")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidProxyLimit is returned when the proxy limit is negative.
	// Zero selects the default.
	ErrInvalidProxyLimit = errors.New("invalid proxy limit: must be non-negative")

	// ErrConflictingReportFormats is returned when both --markdown and
	// --text are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --markdown and --text cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingProxySources is returned when --tor is combined with
	// explicit proxies.
	ErrConflictingProxySources = errors.New("conflicting proxy sources: --tor cannot be used with --proxy")

	// ErrTeeWithoutOutput is returned when --tee is given without -o.
	ErrTeeWithoutOutput = errors.New("--tee requires an output file (-o)")

	// ErrInvalidLanguageSelector is returned when the language selector
	// is not a valid CSS selector group.
	ErrInvalidLanguageSelector = errors.New("invalid language selector")
)
