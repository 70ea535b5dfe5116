package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"NewsGenie/internal/scanner"
)

func TestMockScannerDefaultFeed(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	sc := NewMockScanner(nil)
	sc.now = func() time.Time { return fixed }

	all, err := sc.Scan(context.Background(), scanner.Request{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 mock articles, got %d", len(all))
	}
	if all[0].Source != "Tech News" || !all[0].PublishedAt.Equal(fixed) {
		t.Fatalf("unexpected first article %+v", all[0])
	}
	if want := fixed.Add(-8 * time.Hour); !all[4].PublishedAt.Equal(want) {
		t.Fatalf("expected mars mission dated %s, got %s", want, all[4].PublishedAt)
	}

	limited, _ := sc.Scan(context.Background(), scanner.Request{Limit: 2})
	if len(limited) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(limited))
	}
}

func TestMockScannerFiltersByTopic(t *testing.T) {
	t.Parallel()

	sc := NewMockScanner(nil)
	req := scanner.Request{Topics: []string{"Mars", "healthcare"}, FilterByTopic: true}

	got, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != 2 || got[0].Link != "https://example.com/ml-healthcare" || got[1].Link != "https://example.com/mars-mission" {
		t.Fatalf("unexpected filtered feed %+v", got)
	}

	req.FilterByTopic = false
	unfiltered, _ := sc.Scan(context.Background(), req)
	if len(unfiltered) != 5 {
		t.Fatalf("expected unfiltered feed, got %d", len(unfiltered))
	}
}

func TestLoadMockArticles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.yaml")
	fixture := `
articles:
  - title: Quantum chips
    content: A new quantum processor was unveiled.
    link: https://example.com/quantum
    source: Lab Weekly
    publishedAt: 2025-01-02T10:00:00Z
`
	if err := os.WriteFile(path, []byte(fixture), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	articles, err := LoadMockArticles(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(articles) != 1 || articles[0].Source != "Lab Weekly" || articles[0].PublishedAt.Year() != 2025 {
		t.Fatalf("unexpected fixtures %+v", articles)
	}

	empty := filepath.Join(dir, "empty.yaml")
	_ = os.WriteFile(empty, []byte("articles: []\n"), 0o600)
	if _, err := LoadMockArticles(empty); err == nil {
		t.Fatalf("expected error for empty fixtures")
	}
	if _, err := LoadMockArticles(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
