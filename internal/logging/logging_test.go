package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &out); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return out
}

func TestNewWritesJSONWithAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info", "json").With("component", "pipeline")

	ctx := ContextWithRequestID(context.Background(), "req-1")
	logger.InfoContext(ctx, "ranking complete",
		"returned", 3,
		"error", errors.New("boom"),
		slog.Group("summary", "fallbacks", 1))

	line := decodeLine(t, &buf)
	checks := map[string]any{
		"level":             "info",
		"message":           "ranking complete",
		"component":         "pipeline",
		"request_id":        "req-1",
		"returned":          float64(3),
		"error":             "boom",
		"summary.fallbacks": float64(1),
		"service":           "newsgenie",
	}
	for key, want := range checks {
		if line[key] != want {
			t.Fatalf("%s: got %v, want %v (line %v)", key, line[key], want, line)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn", "json")

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("expected warn record, got %q", buf.String())
	}
}

func TestConsoleFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithWriter(&buf, "debug", "console").Debug("hello", "user_id", "u1")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "user_id=u1") {
		t.Fatalf("unexpected console output %q", out)
	}
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
	id := GenerateRequestID()
	if len(id) != 36 {
		t.Fatalf("expected uuid, got %q", id)
	}
	if got := RequestIDFromContext(ContextWithRequestID(context.Background(), id)); got != id {
		t.Fatalf("expected %q, got %q", id, got)
	}
}
