package transport

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnexpectedStatus is matched by every *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrInvalidProxy is returned when a proxy URL cannot be parsed or has a
	// scheme the fetcher does not support.
	ErrInvalidProxy = errors.New("invalid proxy URL")

	// ErrBodyTooLarge is returned when a response exceeds the body limit.
	ErrBodyTooLarge = errors.New("response body too large")
)

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s from %s",
		ErrUnexpectedStatus, e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Unwrap lets errors.Is match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
