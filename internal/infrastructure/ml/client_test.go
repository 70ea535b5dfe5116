package ml

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"NewsGenie/internal/config"
	"NewsGenie/internal/domain"
)

func TestClientSummarize(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/summarize" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("missing bearer token")
		}
		var req summarizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.MaxLength != 120 || req.MinLength != 30 || !strings.HasPrefix(req.Text, "Long") {
			t.Errorf("unexpected payload %+v", req)
		}
		_, _ = w.Write([]byte(`{"summary":"  A short summary.  "}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "token", 30, server.Client())
	got, err := client.Summarize(context.Background(), "Long article text", 120)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "A short summary." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestClientSummarizeErrors(t *testing.T) {
	t.Parallel()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"summary":" "}`))
	}))
	defer empty.Close()

	if _, err := NewClient(failing.URL, "", 30, failing.Client()).Summarize(context.Background(), "text", 50); err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected status error, got %v", err)
	}
	if _, err := NewClient(empty.URL, "", 30, empty.Client()).Summarize(context.Background(), "text", 50); err == nil {
		t.Fatalf("expected empty summary error")
	}

	if _, err := NewClient("", "", 0, nil).Summarize(context.Background(), "text", 50); err == nil {
		t.Fatalf("expected unconfigured endpoint error")
	}
}

type flakySummarizer struct {
	calls atomic.Int32
	err   error
}

func (f *flakySummarizer) Summarize(context.Context, string, int) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return "ok", nil
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	inner := &flakySummarizer{err: errors.New("boom")}
	cfg := config.BreakerConfig{FailureRatio: 0.6, MinRequests: 5, OpenTimeout: time.Hour, Interval: time.Minute}
	b := NewBreakerSummarizer("inference-test-open", inner, cfg, nil)

	for i := range 5 {
		if _, err := b.Summarize(context.Background(), "text", 50); err == nil || errors.Is(err, domain.ErrUpstreamUnavailable) {
			t.Fatalf("call %d: expected raw failure, got %v", i, err)
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", b.State())
	}

	_, err := b.Summarize(context.Background(), "text", 50)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open-state rejection, got %v", err)
	}
	if inner.calls.Load() != 5 {
		t.Fatalf("open breaker must not call through, got %d calls", inner.calls.Load())
	}
}

func TestBreakerStaysClosedBelowRatio(t *testing.T) {
	t.Parallel()

	inner := &flakySummarizer{}
	cfg := config.BreakerConfig{FailureRatio: 0.6, MinRequests: 5, OpenTimeout: time.Hour, Interval: time.Minute}
	b := NewBreakerSummarizer("inference-test-closed", inner, cfg, nil)

	for range 4 {
		if got, err := b.Summarize(context.Background(), "text", 50); err != nil || got != "ok" {
			t.Fatalf("unexpected result %q, %v", got, err)
		}
	}
	inner.err = errors.New("boom")
	for range 2 {
		_, _ = b.Summarize(context.Background(), "text", 50)
	}
	if b.State() != gobreaker.StateClosed {
		t.Fatalf("2 of 6 failures should keep the breaker closed, got %s", b.State())
	}
}
