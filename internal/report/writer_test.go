package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nao1215/repocrawl/internal/model"
)

// createTestReport creates a repository crawl with two results and one
// dropped detail fetch.
func createTestReport() *model.CrawlReport {
	report := model.NewCrawlReport(model.SearchQuery{
		Keywords: []string{"python", "jwt"},
		Type:     model.ResultTypeRepositories,
	})
	report.SearchURL = "https://github.com/search?q=python+jwt&type=Repositories"
	report.Proxy = model.ProxyPair{HTTP: "http://10.0.0.1:8080", HTTPS: "http://10.0.0.1:8080"}
	report.ProxyPool = []string{"10.0.0.1:8080"}
	report.PerformedSteps = []string{"build_query", "select_proxy"}
	report.AddResult(model.NewRepositoryResult(
		"https://github.com/alice/tool", "alice",
		model.LanguageStats{"Python": 80.5, "Shell": 19.5},
	))
	report.AddResult(model.NewRepositoryResult("https://github.com/bob/empty", "bob", nil))
	report.AddFailure("/carol/broken", "https://github.com/carol/broken", errors.New("unexpected status 404"))
	report.Finish()
	return report
}

// createIssueReport creates a non-repository crawl.
func createIssueReport() *model.CrawlReport {
	report := model.NewCrawlReport(model.SearchQuery{
		Keywords: []string{"bug"},
		Type:     model.ResultTypeIssues,
	})
	report.AddResult(model.NewPlainResult("https://github.com/alice/tool/issues/1"))
	report.Finish()
	return report
}

// TestJSONWriter tests the results-only JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs the result records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(decoded) != 2 {
			t.Fatalf("expected 2 records, got %d", len(decoded))
		}
		extra, ok := decoded[0]["extra"].(map[string]any)
		if !ok {
			t.Fatalf("expected extra object, got %v", decoded[0]["extra"])
		}
		if extra["owner"] != "alice" {
			t.Errorf("expected owner alice, got %v", extra["owner"])
		}
		stats, ok := decoded[1]["extra"].(map[string]any)["language_stats"].(map[string]any)
		if !ok || len(stats) != 0 {
			t.Errorf("expected empty language_stats object, got %v", decoded[1]["extra"])
		}
	})

	t.Run("non-repository records carry only url", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createIssueReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := `[{"url":"https://github.com/alice/tool/issues/1"}]` + "\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("empty crawl prints an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := &model.CrawlReport{}
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "[]\n" {
			t.Errorf("got %q, want %q", buf.String(), "[]\n")
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createIssueReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}
		if !strings.HasPrefix(buf.String(), "[\n  {\n    \"url\"") {
			t.Errorf("expected two-space indentation, got %q", buf.String())
		}
	})
}

// TestFullJSONWriter tests the wrapped report writer.
func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("includes version and failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewFullJSONWriter(&buf, "1.2.3").Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Version string `json:"version"`
			Report  struct {
				RunID    string                `json:"run_id"`
				Results  []model.CrawlResult   `json:"results"`
				Failures []model.DetailFailure `json:"failures"`
			} `json:"report"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Version != "1.2.3" {
			t.Errorf("expected version 1.2.3, got %q", decoded.Version)
		}
		if decoded.Report.RunID == "" {
			t.Error("expected run_id to be set")
		}
		if len(decoded.Report.Failures) != 1 || decoded.Report.Failures[0].Link != "/carol/broken" {
			t.Errorf("unexpected failures: %+v", decoded.Report.Failures)
		}
	})
}

// TestMarkdownWriter tests the Markdown report.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes summary, results and charts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# GitHub Search Crawl",
			"python jwt",
			"https://github.com/alice/tool",
			"mermaid",
			"Python",
			"Dropped Repositories",
			"https://github.com/carol/broken",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("lists plain results without charts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createIssueReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "https://github.com/alice/tool/issues/1") {
			t.Error("expected output to contain the issue URL")
		}
		if strings.Contains(output, "mermaid") {
			t.Error("expected no chart for issue results")
		}
	})

	t.Run("shows abort reason", func(t *testing.T) {
		t.Parallel()

		report := createIssueReport()
		report.SetError(errors.New("proxy pool is empty"))

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "proxy pool is empty") {
			t.Error("expected output to contain the error")
		}
	})
}

// TestTextWriter tests the plain text report.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and results", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"GITHUB SEARCH CRAWL",
			"RESULTS (2)",
			"Owner: alice",
			"Languages: Python 80.5%, Shell 19.5%",
			"DROPPED (1)",
			"Status:    Complete",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "unexpected status 404") {
			t.Error("expected failure detail only in verbose mode")
		}
	})

	t.Run("verbose mode includes pool and errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf, WithVerbose(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"10.0.0.1:8080", "build_query -> select_proxy", "unexpected status 404"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("shows error in status", func(t *testing.T) {
		t.Parallel()

		report := createIssueReport()
		report.SetError(errors.New("boom"))

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "ERROR - boom") {
			t.Error("expected error status")
		}
	})
}

// TestMultiWriter tests writing one report through several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var jsonBuf, textBuf bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(&jsonBuf), NewTextWriter(&textBuf))

		n, err := mw.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != jsonBuf.Len()+textBuf.Len() {
			t.Errorf("expected total %d, got %d", jsonBuf.Len()+textBuf.Len(), n)
		}
		if jsonBuf.Len() == 0 || textBuf.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})
}

// TestSortedLanguages tests the ordering used by the human-readable writers.
func TestSortedLanguages(t *testing.T) {
	t.Parallel()

	got := sortedLanguages(model.LanguageStats{"Go": 10, "C": 45, "Awk": 45})
	want := []string{"Awk", "C", "Go"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// TestTruncateString tests that truncation never splits a character.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short ascii unchanged", "timeout", 10, "timeout"},
		{"long ascii gets ellipsis", "connection refused", 10, "connect..."},
		{"multibyte counted as runes", "接続がタイムアウトしました", 8, "接続がタイ..."},
		{"multibyte within limit unchanged", "接続失敗", 4, "接続失敗"},
		{"tiny limit", "日本語", 2, "日本"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := truncateString(tt.in, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("result %q is not valid UTF-8", got)
			}
		})
	}
}
