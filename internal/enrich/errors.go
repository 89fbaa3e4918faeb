package enrich

import (
	"errors"
	"fmt"
)

// ErrInvalidPercentage is returned when a language percentage is not a number.
var ErrInvalidPercentage = errors.New("invalid language percentage")

// DetailFetchError records why one repository could not be enriched.
// The crawl skips the repository and keeps going.
type DetailFetchError struct {
	Link string
	Err  error
}

// Error implements error.
func (e *DetailFetchError) Error() string {
	return fmt.Sprintf("failed to enrich %s: %v", e.Link, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DetailFetchError) Unwrap() error {
	return e.Err
}
