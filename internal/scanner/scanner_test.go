package scanner

import (
	"context"
	"testing"

	"NewsGenie/internal/domain"
)

type namedScanner string

func (n namedScanner) Name() string { return string(n) }

func (namedScanner) Scan(context.Context, Request) ([]domain.Article, error) { return nil, nil }

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(namedScanner("mock"), namedScanner("newsapi"))

	if _, err := reg.Resolve("mock"); err != nil {
		t.Fatalf("resolve mock: %v", err)
	}
	if _, err := reg.Resolve("ieee"); err == nil {
		t.Fatalf("expected error for unknown scanner")
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "mock" || names[1] != "newsapi" {
		t.Fatalf("unexpected names %v", names)
	}
}
