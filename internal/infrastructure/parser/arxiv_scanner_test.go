package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsGenie/internal/scanner"
)

func TestBuildPageURL(t *testing.T) {
	t.Parallel()

	base := "https://export.arxiv.org/list/cs.AI/pastweek"
	u, err := buildPageURL(base, 200, 100)
	if err != nil {
		t.Fatalf("buildPageURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}

	if parsed.Scheme != "https" || parsed.Host != "export.arxiv.org" {
		t.Fatalf("unexpected host: %s", parsed.Host)
	}

	q := parsed.Query()
	if q.Get("skip") != "200" || q.Get("show") != "100" {
		t.Fatalf("unexpected paging query: %s", parsed.RawQuery)
	}
}

func TestParseEntry(t *testing.T) {
	t.Parallel()

	html := `
	<dl>
	  <dt>
	    <span class="list-identifier"><a href="/abs/1234.56789">arXiv:1234.56789</a></span>
	  </dt>
	  <dd>
	    <div class="list-date">Date: 8 Nov 2025</div>
	    <div class="list-title mathjax">Title: Sample Title</div>
	    <p class="mathjax">Abstract: Sample abstract text.</p>
	  </dd>
	</dl>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	article, ok := parseEntry(doc.Find("dt").First(), doc.Find("dd").First(), "arxiv-ai", "cs.AI")
	if !ok {
		t.Fatalf("parseEntry rejected a valid entry")
	}

	if article.Link != "https://arxiv.org/abs/1234.56789" {
		t.Fatalf("unexpected link: %s", article.Link)
	}
	if article.Title != "Sample Title" {
		t.Fatalf("unexpected title: %s", article.Title)
	}
	if article.Content != "Sample abstract text." {
		t.Fatalf("unexpected content: %s", article.Content)
	}
	if article.Source != "arxiv-ai/cs.AI" {
		t.Fatalf("unexpected source: %s", article.Source)
	}

	wantDate := time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC)
	if !article.PublishedAt.Equal(wantDate) {
		t.Fatalf("unexpected published date: %v", article.PublishedAt)
	}
}

const arxivPage = `
<dl>
  <dt><span class="list-identifier"><a href="/abs/2501.00001">arXiv:2501.00001</a></span></dt>
  <dd>
    <div class="list-date">Date: 8 Nov 2025</div>
    <div class="list-title mathjax">Title: Language Models Article</div>
    <p class="mathjax">Abstract: Large language models keep improving.</p>
  </dd>
  <dt><span class="list-identifier"><a href="/abs/2501.00002">arXiv:2501.00002</a></span></dt>
  <dd>
    <div class="list-date">Date: 7 Nov 2025</div>
    <div class="list-title mathjax">Title: Robotics Article</div>
    <p class="mathjax">Abstract: Robots grasp objects.</p>
  </dd>
  <dt><span class="list-identifier"><a href="/abs/2501.00003">arXiv:2501.00003</a></span></dt>
  <dd>
    <div class="list-date">Date: 6 Nov 2025</div>
    <div class="list-title mathjax">Title: Vision Article</div>
    <p class="mathjax">Abstract: Images are classified.</p>
  </dd>
</dl>`

func TestArxivScannerScan(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(arxivPage))
	}))
	defer server.Close()

	sc := NewArxivScanner(server.Client())
	sc.pageSize = 10

	req := scanner.Request{
		SiteName: "arxiv-ai",
		Limit:    2,
		Categories: []scanner.Category{
			{Name: "cs.AI", URL: server.URL + "/list/cs.AI"},
		},
	}

	articles, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected limit of 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "Language Models Article" || articles[1].Title != "Robotics Article" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
	if hits.Load() != 1 {
		t.Fatalf("short page should stop pagination, got %d requests", hits.Load())
	}

	req.Limit = 10
	req.Topics = []string{"robots"}
	req.FilterByTopic = true
	filtered, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Title != "Robotics Article" {
		t.Fatalf("expected topic filter to keep robotics only, got %+v", filtered)
	}
}

func TestArxivScannerRequiresCategories(t *testing.T) {
	t.Parallel()

	if _, err := NewArxivScanner(nil).Scan(context.Background(), scanner.Request{SiteName: "arxiv"}); err == nil {
		t.Fatalf("expected error without categories")
	}
}
