package model

import "strings"

// ResultType selects what kind of entity a GitHub search is querying.
type ResultType string

const (
	// ResultTypeRepositories searches repositories. Only this type is enriched
	// with owner and language composition.
	ResultTypeRepositories ResultType = "Repositories"

	// ResultTypeIssues searches issues and pull requests.
	ResultTypeIssues ResultType = "Issues"

	// ResultTypeWikis searches wiki pages.
	ResultTypeWikis ResultType = "Wikis"
)

// ResultTypes returns the accepted result types in their canonical order.
// A new slice is returned on every call so callers may modify it.
func ResultTypes() []ResultType {
	return []ResultType{
		ResultTypeRepositories,
		ResultTypeIssues,
		ResultTypeWikis,
	}
}

// Valid reports whether t is one of the accepted result types.
// The comparison is exact; "repositories" is not valid.
func (t ResultType) Valid() bool {
	for _, known := range ResultTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// String returns the value used in the search URL.
func (t ResultType) String() string {
	return string(t)
}

// IsRepositories reports whether results of this type get a detail fetch.
func (t ResultType) IsRepositories() bool {
	return t == ResultTypeRepositories
}

// SearchQuery is a set of keywords and the result type to search for.
// Build one with search.NewQuery so the result type is validated.
type SearchQuery struct {
	// Keywords are joined with "+" in the order given.
	Keywords []string `json:"keywords"`

	// Type is the result type selector.
	Type ResultType `json:"type"`
}

// String returns the keywords separated by spaces.
func (q SearchQuery) String() string {
	return strings.Join(q.Keywords, " ")
}
