package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"NewsGenie/internal/scanner"
)

func TestNewsAPIScannerQueriesEachTopic(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		queries []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/everything" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
			return
		}
		q := r.URL.Query()
		if q.Get("language") != "en" || q.Get("sortBy") != "publishedAt" || q.Get("pageSize") != "5" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}

		mu.Lock()
		queries = append(queries, q.Get("q"))
		mu.Unlock()

		switch q.Get("q") {
		case "ai":
			_, _ = w.Write([]byte(`{"status":"ok","articles":[
				{"source":{"name":"Wire"},"title":"AI story","description":"desc","url":"https://n.example/ai","publishedAt":"2025-05-01T08:00:00Z","content":"Full AI story text… [+1200 chars]"},
				{"source":{"name":""},"title":"No content","description":"Only a description","url":"https://n.example/desc","publishedAt":"2025-05-01T07:00:00Z","content":""}
			]}`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"status":"error","code":"rateLimited","message":"slow down"}`))
		}
	}))
	defer server.Close()

	sc := NewNewsAPIScanner(server.Client(), server.URL, "secret", nil)
	articles, err := sc.Scan(context.Background(), scanner.Request{SiteName: "NewsAPI", Topics: []string{"ai", "sports"}, Limit: 5})
	if err != nil {
		t.Fatalf("scan should survive one failing topic: %v", err)
	}

	if len(queries) != 2 {
		t.Fatalf("expected one query per topic, got %v", queries)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Content != "Full AI story text" || articles[0].Source != "Wire" || articles[0].PublishedAt.IsZero() {
		t.Fatalf("unexpected first article %+v", articles[0])
	}
	if articles[1].Content != "Only a description" || articles[1].Source != "Unknown" {
		t.Fatalf("unexpected fallback article %+v", articles[1])
	}
}

func TestNewsAPIScannerAllQueriesFail(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
	}))
	defer server.Close()

	sc := NewNewsAPIScanner(server.Client(), server.URL, "wrong", nil)
	_, err := sc.Scan(context.Background(), scanner.Request{Topics: []string{"ai"}})
	if err == nil || !strings.Contains(err.Error(), "apiKeyInvalid") {
		t.Fatalf("expected api error, got %v", err)
	}
}
