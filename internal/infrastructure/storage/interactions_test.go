package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/ports"
)

func event(user, link string, action domain.Action) domain.InteractionEvent {
	return domain.InteractionEvent{
		ID:          uuid.NewString(),
		UserID:      user,
		ArticleLink: link,
		Action:      action,
		Timestamp:   time.Now().UTC(),
	}
}

func openSQL(t *testing.T) *SQLInteractions {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	store, err := OpenSQLInteractions(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func stores(t *testing.T) map[string]ports.InteractionStore {
	return map[string]ports.InteractionStore{
		"memory": NewMemoryInteractions(),
		"sqlite": openSQL(t),
	}
}

func TestInteractionStats(t *testing.T) {
	t.Parallel()

	for name, store := range stores(t) {
		ctx := context.Background()
		for _, e := range []domain.InteractionEvent{
			event("u1", "a1", domain.ActionClick),
			event("u1", "a1", domain.ActionClick),
			event("u1", "a2", domain.ActionClick),
			event("u1", "a1", domain.ActionFavorite),
			event("u1", "a1", domain.ActionFavorite),
			event("u1", "a3", domain.ActionFavorite),
			event("u2", "a1", domain.ActionClick),
		} {
			if err := store.Record(ctx, e); err != nil {
				t.Fatalf("%s: record: %v", name, err)
			}
		}

		stats, err := store.Stats(ctx, "u1")
		if err != nil {
			t.Fatalf("%s: stats: %v", name, err)
		}
		if stats.ClickCount != 3 || stats.FavoriteCount != 2 {
			t.Fatalf("%s: unexpected stats %+v", name, stats)
		}

		empty, err := store.Stats(ctx, "nobody")
		if err != nil {
			t.Fatalf("%s: stats for unknown user: %v", name, err)
		}
		if empty != (domain.InteractionStats{}) {
			t.Fatalf("%s: expected zero stats, got %+v", name, empty)
		}
	}
}

func TestInteractionOrderDoesNotMatter(t *testing.T) {
	t.Parallel()

	for name, store := range stores(t) {
		ctx := context.Background()
		_ = store.Record(ctx, event("x", "a1", domain.ActionFavorite))
		_ = store.Record(ctx, event("x", "a1", domain.ActionClick))
		_ = store.Record(ctx, event("y", "a1", domain.ActionClick))
		_ = store.Record(ctx, event("y", "a1", domain.ActionFavorite))

		sx, _ := store.Stats(ctx, "x")
		sy, _ := store.Stats(ctx, "y")
		if sx != sy || sx.ClickCount != 1 || sx.FavoriteCount != 1 {
			t.Fatalf("%s: expected equal independent counts, got %+v vs %+v", name, sx, sy)
		}
	}
}

func TestConcurrentRecordsAreNotLost(t *testing.T) {
	t.Parallel()

	const writers, perWriter = 8, 25

	for name, store := range stores(t) {
		ctx := context.Background()
		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					if err := store.Record(ctx, event("busy", fmt.Sprintf("a%d", i), domain.ActionClick)); err != nil {
						t.Errorf("%s: record: %v", name, err)
						return
					}
				}
			}()
		}
		wg.Wait()

		stats, err := store.Stats(ctx, "busy")
		if err != nil {
			t.Fatalf("%s: stats: %v", name, err)
		}
		if stats.ClickCount != writers*perWriter {
			t.Fatalf("%s: expected %d clicks, got %d", name, writers*perWriter, stats.ClickCount)
		}
	}
}

func TestMemoryInteractionsRejectsUnknownAction(t *testing.T) {
	t.Parallel()

	store := NewMemoryInteractions()
	err := store.Record(context.Background(), event("u1", "a1", domain.Action("share")))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if got := store.Events("u1"); len(got) != 0 {
		t.Fatalf("rejected event should not be appended, got %v", got)
	}
}

func TestSQLInteractionsEvents(t *testing.T) {
	t.Parallel()

	store := openSQL(t)
	ctx := context.Background()

	first := event("u1", "a1", domain.ActionClick)
	second := event("u1", "a2", domain.ActionFavorite)
	second.Timestamp = first.Timestamp.Add(time.Second)
	for _, e := range []domain.InteractionEvent{second, first} {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	events, err := store.Events(ctx, "u1")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 2 || events[0].ID != first.ID || events[1].Action != domain.ActionFavorite {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestMemoryProfiles(t *testing.T) {
	t.Parallel()

	seed := map[string][]string{"user123": {"AI", "technology"}}
	profiles := NewMemoryProfiles(seed)
	ctx := context.Background()

	topics, ok := profiles.Topics(ctx, "user123")
	if !ok || len(topics) != 2 {
		t.Fatalf("expected seeded topics, got %v %v", topics, ok)
	}
	topics[0] = "mutated"
	if again, _ := profiles.Topics(ctx, "user123"); again[0] != "AI" {
		t.Fatalf("Topics must return a copy, got %v", again)
	}
	seed["user123"][0] = "mutated"
	if again, _ := profiles.Topics(ctx, "user123"); again[0] != "AI" {
		t.Fatalf("seed must be copied, got %v", again)
	}

	if _, ok := profiles.Topics(ctx, "nobody"); ok {
		t.Fatalf("unknown user should be absent")
	}
	profiles.Remember(ctx, "nobody", []string{"sports"})
	if got, ok := profiles.Topics(ctx, "nobody"); !ok || got[0] != "sports" {
		t.Fatalf("expected remembered topics, got %v", got)
	}
}
