package search

import (
	"strings"

	"github.com/nao1215/repocrawl/internal/model"
)

// DefaultBaseURL is the GitHub origin used for search and repository URLs.
const DefaultBaseURL = "https://github.com"

// keywordSeparator joins keywords in the q parameter.
const keywordSeparator = "+"

// NewQuery validates resultType and returns a SearchQuery.
// The keywords slice is copied.
func NewQuery(keywords []string, resultType model.ResultType) (model.SearchQuery, error) {
	if !resultType.Valid() {
		return model.SearchQuery{}, &InvalidSearchTypeError{
			Value:    string(resultType),
			Accepted: model.ResultTypes(),
		}
	}
	return model.SearchQuery{
		Keywords: append([]string(nil), keywords...),
		Type:     resultType,
	}, nil
}

// BuildURL returns the search URL for keywords and resultType under baseURL:
//
//	<baseURL>/search?q=<k1+k2+...>&type=<resultType>
//
// Keywords are joined with a literal "+" and are not otherwise encoded, so a
// keyword containing "&" or "#" will corrupt the query. Output is
// deterministic for identical input.
func BuildURL(baseURL string, keywords []string, resultType model.ResultType) (string, error) {
	query, err := NewQuery(keywords, resultType)
	if err != nil {
		return "", err
	}
	return QueryURL(baseURL, query), nil
}

// QueryURL renders an already validated query.
func QueryURL(baseURL string, query model.SearchQuery) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSuffix(baseURL, "/"))
	sb.WriteString("/search?q=")
	sb.WriteString(strings.Join(query.Keywords, keywordSeparator))
	sb.WriteString("&type=")
	sb.WriteString(query.Type.String())
	return sb.String()
}

// AbsoluteURL joins a path-relative result link onto baseURL.
func AbsoluteURL(baseURL, link string) string {
	return strings.TrimSuffix(baseURL, "/") + link
}
