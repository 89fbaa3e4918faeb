// Package enrich fetches a repository page and extracts its owner and
// language composition.
package enrich
