package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/repocrawl/internal/model"
)

// ErrInvalidSearchType is returned when a result type is not one of
// model.ResultTypes(). The concrete error is an *InvalidSearchTypeError.
var ErrInvalidSearchType = errors.New("invalid search type")

// InvalidSearchTypeError names the rejected value and the accepted set.
type InvalidSearchTypeError struct {
	Value    string
	Accepted []model.ResultType
}

// Error implements error.
func (e *InvalidSearchTypeError) Error() string {
	accepted := make([]string, len(e.Accepted))
	for i, t := range e.Accepted {
		accepted[i] = t.String()
	}
	return fmt.Sprintf("%s %q: must be one of [%s]",
		ErrInvalidSearchType, e.Value, strings.Join(accepted, ", "))
}

// Unwrap lets errors.Is match ErrInvalidSearchType.
func (e *InvalidSearchTypeError) Unwrap() error {
	return ErrInvalidSearchType
}
