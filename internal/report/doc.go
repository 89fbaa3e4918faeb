// Package report renders crawl reports.
//
// JSONWriter prints the result records exactly as the crawl returns them,
// which is the default output of the CLI. FullJSONWriter wraps the whole
// report with the tool version. MarkdownWriter and TextWriter produce
// documents meant for people, with per-repository language breakdowns.
//
// All writers implement Writer and can be combined with MultiWriter.
package report
