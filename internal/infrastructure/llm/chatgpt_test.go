package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"NewsGenie/internal/config"
)

func TestChatGPTSummarize(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing api key header")
		}

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Model != "gpt-test" || len(body.Messages) != 2 || body.Messages[0].Role != "system" {
			t.Errorf("unexpected request %+v", body)
		}
		if !strings.Contains(body.Messages[1].Content, "at most 40 words") {
			t.Errorf("prompt should carry the length cap: %q", body.Messages[1].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":" Markets rallied. "}}]}`))
	}))
	defer server.Close()

	s := NewChatGPTSummarizer(config.ChatGPTConfig{Endpoint: server.URL, Model: "gpt-test", APIKey: "sk-test"}, server.Client())
	got, err := s.Summarize(context.Background(), "Stocks went up across the board.", 40)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "Markets rallied." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestChatGPTSummarizeFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer empty" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test","choices":[]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	bad := NewChatGPTSummarizer(config.ChatGPTConfig{Endpoint: server.URL, Model: "gpt-test", APIKey: "nope"}, server.Client())
	if _, err := bad.Summarize(context.Background(), "text", 40); err == nil {
		t.Fatalf("expected error for unauthorized request")
	}

	empty := NewChatGPTSummarizer(config.ChatGPTConfig{Endpoint: server.URL, Model: "gpt-test", APIKey: "empty"}, server.Client())
	if _, err := empty.Summarize(context.Background(), "text", 40); err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Fatalf("expected no-choices error, got %v", err)
	}
}

func TestSafePrompt(t *testing.T) {
	t.Parallel()

	if safePrompt("  ") != defaultSystemPrompt {
		t.Fatalf("blank prompt should use default")
	}
	if safePrompt(" custom ") != "custom" {
		t.Fatalf("prompt should be trimmed")
	}
}
