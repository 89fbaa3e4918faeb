package report

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/repocrawl/internal/model"
)

// MarkdownWriter outputs reports in Markdown format, with a mermaid pie
// chart of the language composition of each enriched repository.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeAlert(md, report)
	w.writeResults(md, report)
	w.writeLanguages(md, report)
	w.writeFailures(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("GitHub Search Crawl")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + report.RunID + "`"},
			{"Keywords", "`" + report.Query.String() + "`"},
			{"Type", report.Query.Type.String()},
			{"Search URL", orDash(report.SearchURL)},
			{"Proxy", orDash(report.Proxy.HTTPS)},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", report.Elapsed.Round(1e6).String()},
			{"Results", strconv.Itoa(len(report.Results))},
			{"Dropped", strconv.Itoa(len(report.Failures))},
		},
	})
	md.PlainText("")
}

// writeAlert writes a note matching the outcome of the crawl.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.CrawlReport) {
	switch {
	case !report.Succeeded():
		md.Cautionf("Crawl aborted: %s", report.ErrorMessage)
	case len(report.Failures) > 0:
		md.Warningf("%d repository detail fetch(es) failed and were left out.", len(report.Failures))
	case len(report.Results) == 0:
		md.Note("The search page returned no results.")
	default:
		md.Tip("All results were collected.")
	}
	md.PlainText("")
}

// writeResults writes one table row per result.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Results")
	md.PlainText("")

	if len(report.Results) == 0 {
		md.PlainText("No results.")
		md.PlainText("")
		return
	}

	if !report.Query.Type.IsRepositories() {
		urls := make([]string, len(report.Results))
		for i, r := range report.Results {
			urls[i] = r.URL
		}
		md.BulletList(urls...)
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		owner, top := "-", "-"
		if r.IsEnriched() {
			owner = r.Extra.Owner
			if langs := sortedLanguages(r.Extra.LanguageStats); len(langs) > 0 {
				top = langs[0] + " " + formatPercent(r.Extra.LanguageStats[langs[0]])
			}
		}
		rows = append(rows, []string{r.URL, owner, top})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Repository", "Owner", "Main language"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeLanguages writes a pie chart per repository that reports languages.
func (w *MarkdownWriter) writeLanguages(md *markdown.Markdown, report *model.CrawlReport) {
	if !report.Query.Type.IsRepositories() {
		return
	}

	header := false
	for _, r := range report.Results {
		if !r.IsEnriched() || len(r.Extra.LanguageStats) == 0 {
			continue
		}
		if !header {
			md.H2("Languages")
			md.PlainText("")
			header = true
		}

		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle(r.URL),
			piechart.WithShowData(true),
		)
		for _, name := range sortedLanguages(r.Extra.LanguageStats) {
			chart.LabelAndFloatValue(name, r.Extra.LanguageStats[name])
		}

		md.H3(r.URL)
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

// writeFailures lists the dropped detail fetches.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.CrawlReport) {
	if len(report.Failures) == 0 {
		return
	}

	md.H2("Dropped Repositories")
	md.PlainText("")

	rows := make([][]string, len(report.Failures))
	for i, f := range report.Failures {
		rows[i] = []string{f.URL, truncateString(f.Error, 80)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Error"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, f := range report.Failures {
		if utf8.RuneCountInString(f.Error) > 80 {
			md.Details(f.Link, f.Error)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [repocrawl](https://github.com/nao1215/repocrawl)*")
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
