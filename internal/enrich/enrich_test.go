package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/repocrawl/internal/model"
)

// mockFetcher serves canned pages keyed by URL.
type mockFetcher struct {
	pages map[string]string
	err   error
	last  model.ProxyPair
}

func (m *mockFetcher) Fetch(_ context.Context, rawURL string, pair model.ProxyPair) (string, error) {
	m.last = pair
	if m.err != nil {
		return "", m.err
	}
	page, ok := m.pages[rawURL]
	if !ok {
		return "", errors.New("not found")
	}
	return page, nil
}

const repoPage = `<html><body><ul>
	<li class="d-inline"><a href="/user/repo/search?l=python"><svg class="octicon" aria-hidden="true"></svg><span>Python</span><span>80.0%</span></a></li>
	<li class="d-inline"><a href="/user/repo/search?l=html"><span>HTML</span> <span>20.0%</span></a></li>
</ul></body></html>`

// TestParseLanguages tests language bar parsing.
func TestParseLanguages(t *testing.T) {
	t.Parallel()

	t.Run("reads name and percentage", func(t *testing.T) {
		t.Parallel()

		page := `<span class="d-inline-flex"><span>Python</span><span>80.0%</span></span>`
		stats, err := ParseLanguages(page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(stats) != 1 || stats["Python"] != 80.0 {
			t.Errorf("expected {Python: 80}, got %v", stats)
		}
	})

	t.Run("entries with a single span are skipped", func(t *testing.T) {
		t.Parallel()

		page := `<span class="d-inline-flex"><span>Other</span></span>
			<span class="d-inline-flex"><span> Go </span><span> 12.5% </span></span>`
		stats, err := ParseLanguages(page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := stats["Other"]; ok {
			t.Error("expected single span entry to be skipped")
		}
		if stats["Go"] != 12.5 {
			t.Errorf("expected Go 12.5, got %v", stats)
		}
	})

	t.Run("first occurrence wins", func(t *testing.T) {
		t.Parallel()

		page := `<span class="d-inline-flex"><span>Python</span><span>60.0%</span></span>
			<span class="d-inline-flex"><span>Python</span><span>10.0%</span></span>`
		stats, err := ParseLanguages(page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats["Python"] != 60.0 {
			t.Errorf("expected first value 60, got %v", stats["Python"])
		}
	})

	t.Run("invalid percentage fails", func(t *testing.T) {
		t.Parallel()

		page := `<span class="d-inline-flex"><span>Python</span><span>lots</span></span>`
		_, err := ParseLanguages(page)
		if !errors.Is(err, ErrInvalidPercentage) {
			t.Errorf("expected ErrInvalidPercentage, got %v", err)
		}
	})

	t.Run("leading empty span fails", func(t *testing.T) {
		t.Parallel()

		page := `<span class="d-inline-flex"><span class="color"></span><span>Python</span><span>80.0%</span></span>`
		_, err := ParseLanguages(page)
		if !errors.Is(err, ErrInvalidPercentage) {
			t.Errorf("expected ErrInvalidPercentage, got %v", err)
		}
	})

	t.Run("non-finite and out of range percentages fail", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"NaN%", "Inf%", "-Infinity%", "250%", "-0.5%"} {
			page := `<span class="d-inline-flex"><span>Go</span><span>` + raw + `</span></span>`
			stats, err := ParseLanguages(page)
			if !errors.Is(err, ErrInvalidPercentage) {
				t.Errorf("%s: expected ErrInvalidPercentage, got stats=%v err=%v", raw, stats, err)
			}
		}
	})

	t.Run("bounds are accepted", func(t *testing.T) {
		t.Parallel()

		page := `<span class="d-inline-flex"><span>Go</span><span>100%</span></span>
			<span class="d-inline-flex"><span>C</span><span>0%</span></span>`
		stats, err := ParseLanguages(page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats["Go"] != 100 || stats["C"] != 0 {
			t.Errorf("unexpected stats %v", stats)
		}
	})

	t.Run("page without languages is empty", func(t *testing.T) {
		t.Parallel()

		stats, err := ParseLanguages("<html></html>")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats == nil || len(stats) != 0 {
			t.Errorf("expected empty stats, got %#v", stats)
		}
	})

	t.Run("list items are matched", func(t *testing.T) {
		t.Parallel()

		stats, err := ParseLanguages(repoPage)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(stats) != 2 {
			t.Fatalf("expected 2 languages, got %v", stats)
		}
		if stats["HTML"] != 20.0 {
			t.Errorf("expected HTML 20, got %v", stats["HTML"])
		}
	})

	t.Run("custom selector", func(t *testing.T) {
		t.Parallel()

		page := `<div class="lang"><span>Rust</span><span>100%</span></div>`
		stats, err := ParseLanguagesWith(page, "div.lang")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats["Rust"] != 100 {
			t.Errorf("expected Rust 100, got %v", stats)
		}
	})
}

// TestEnricher tests repository enrichment.
func TestEnricher(t *testing.T) {
	t.Parallel()

	t.Run("builds result with owner and stats", func(t *testing.T) {
		t.Parallel()

		fetcher := &mockFetcher{pages: map[string]string{
			"https://github.com/user/repo": `<span class="d-inline-flex"><span>Python</span><span>80.0%</span></span>`,
		}}
		pair := model.ProxyPair{HTTP: "http://1.2.3.4:80", HTTPS: "http://1.2.3.4:80"}

		result, err := NewEnricher(fetcher).ProcessRepo(context.Background(), "/user/repo", pair)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.URL != "https://github.com/user/repo" {
			t.Errorf("unexpected url %q", result.URL)
		}
		if result.Extra == nil || result.Extra.Owner != "user" {
			t.Fatalf("expected owner 'user', got %+v", result.Extra)
		}
		if result.Extra.LanguageStats["Python"] != 80.0 {
			t.Errorf("expected Python 80, got %v", result.Extra.LanguageStats)
		}
		if fetcher.last != pair {
			t.Errorf("expected fetch through %+v, got %+v", pair, fetcher.last)
		}
	})

	t.Run("no language bar gives empty stats", func(t *testing.T) {
		t.Parallel()

		fetcher := &mockFetcher{pages: map[string]string{"http://gh.test/o/r": "<html></html>"}}
		result, err := NewEnricher(fetcher, WithBaseURL("http://gh.test")).ProcessRepo(context.Background(), "/o/r", model.ProxyPair{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Extra.LanguageStats == nil || len(result.Extra.LanguageStats) != 0 {
			t.Errorf("expected empty stats, got %#v", result.Extra.LanguageStats)
		}
	})

	t.Run("fetch failure is a detail fetch error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("timeout")
		_, err := NewEnricher(&mockFetcher{err: boom}).ProcessRepo(context.Background(), "/user/repo", model.ProxyPair{})
		var detailErr *DetailFetchError
		if !errors.As(err, &detailErr) {
			t.Fatalf("expected *DetailFetchError, got %T", err)
		}
		if detailErr.Link != "/user/repo" {
			t.Errorf("unexpected link %q", detailErr.Link)
		}
		if !errors.Is(err, boom) {
			t.Error("expected cause to be preserved")
		}
	})

	t.Run("parse failure is a detail fetch error", func(t *testing.T) {
		t.Parallel()

		fetcher := &mockFetcher{pages: map[string]string{
			"https://github.com/user/repo": `<span class="d-inline-flex"><span>Go</span><span>n/a</span></span>`,
		}}
		_, err := NewEnricher(fetcher).ProcessRepo(context.Background(), "/user/repo", model.ProxyPair{})
		var detailErr *DetailFetchError
		if !errors.As(err, &detailErr) {
			t.Fatalf("expected *DetailFetchError, got %v", err)
		}
		if !errors.Is(err, ErrInvalidPercentage) {
			t.Errorf("expected ErrInvalidPercentage, got %v", err)
		}
	})
}

// TestOwner tests owner extraction from links.
func TestOwner(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/user/repo": "user",
		"user/repo/": "user",
		"/solo":      "solo",
		"":           "",
	}
	for link, want := range tests {
		if got := Owner(link); got != want {
			t.Errorf("Owner(%q): expected %q, got %q", link, want, got)
		}
	}
}
