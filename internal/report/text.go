package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/repocrawl/internal/model"
)

// TextWriter outputs a human-readable plain text report for terminals.
type TextWriter struct {
	baseWriter

	// verbose adds the proxy pool and the performed steps.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *TextWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeResults(&sb, report)
	w.writeFailures(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func (w *TextWriter) writeHeader(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       GITHUB SEARCH CRAWL\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Run ID:    %s\n", report.RunID)
	fmt.Fprintf(sb, "Keywords:  %s\n", report.Query.String())
	fmt.Fprintf(sb, "Type:      %s\n", report.Query.Type)
	fmt.Fprintf(sb, "URL:       %s\n", orDash(report.SearchURL))
	fmt.Fprintf(sb, "Proxy:     %s\n", orDash(report.Proxy.HTTPS))
	fmt.Fprintf(sb, "Elapsed:   %s\n", report.Elapsed.Round(1e6))

	if w.verbose {
		fmt.Fprintf(sb, "Pool:      %s\n", orDash(strings.Join(report.ProxyPool, ", ")))
		fmt.Fprintf(sb, "Steps:     %s\n", orDash(strings.Join(report.PerformedSteps, " -> ")))
	}

	if report.Succeeded() {
		sb.WriteString("Status:    Complete\n")
	} else {
		fmt.Fprintf(sb, "Status:    ERROR - %s\n", report.ErrorMessage)
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeResults(sb *strings.Builder, report *model.CrawlReport) {
	writeSection(sb, fmt.Sprintf("RESULTS (%d)", len(report.Results)))

	if len(report.Results) == 0 {
		sb.WriteString("  No results\n\n")
		return
	}

	for _, r := range report.Results {
		fmt.Fprintf(sb, "  [+] %s\n", r.URL)
		if !r.IsEnriched() {
			continue
		}
		fmt.Fprintf(sb, "      Owner: %s\n", r.Extra.Owner)
		langs := sortedLanguages(r.Extra.LanguageStats)
		if len(langs) == 0 {
			continue
		}
		parts := make([]string, len(langs))
		for i, name := range langs {
			parts[i] = name + " " + formatPercent(r.Extra.LanguageStats[name])
		}
		fmt.Fprintf(sb, "      Languages: %s\n", strings.Join(parts, ", "))
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeFailures(sb *strings.Builder, report *model.CrawlReport) {
	if len(report.Failures) == 0 {
		return
	}

	writeSection(sb, fmt.Sprintf("DROPPED (%d)", len(report.Failures)))
	for _, f := range report.Failures {
		fmt.Fprintf(sb, "  [-] %s\n", f.URL)
		if w.verbose {
			fmt.Fprintf(sb, "      %s\n", f.Error)
		}
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by repocrawl\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}
