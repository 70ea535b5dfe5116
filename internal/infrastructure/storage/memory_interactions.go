package storage

import (
	"context"
	"fmt"
	"sync"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/ports"
)

// MemoryInteractions is the process-local append-only interaction log.
// One RWMutex serializes writers; aggregates are maintained on append so
// Stats never scans the log.
type MemoryInteractions struct {
	mu        sync.RWMutex
	events    []domain.InteractionEvent
	clicks    map[string]int
	favorites map[string]map[string]struct{}
}

var _ ports.InteractionStore = (*MemoryInteractions)(nil)

// NewMemoryInteractions returns an empty log.
func NewMemoryInteractions() *MemoryInteractions {
	return &MemoryInteractions{
		clicks:    map[string]int{},
		favorites: map[string]map[string]struct{}{},
	}
}

// Record appends the event.
func (m *MemoryInteractions) Record(ctx context.Context, event domain.InteractionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch event.Action {
	case domain.ActionClick:
		m.clicks[event.UserID]++
	case domain.ActionFavorite:
		set, ok := m.favorites[event.UserID]
		if !ok {
			set = map[string]struct{}{}
			m.favorites[event.UserID] = set
		}
		set[event.ArticleLink] = struct{}{}
	default:
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, event.Action)
	}

	m.events = append(m.events, event)
	return nil
}

// Stats returns the click count and the number of distinct favorited links.
func (m *MemoryInteractions) Stats(ctx context.Context, userID string) (domain.InteractionStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.InteractionStats{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return domain.InteractionStats{
		ClickCount:    m.clicks[userID],
		FavoriteCount: len(m.favorites[userID]),
	}, nil
}

// Events returns a copy of the user's log in append order.
func (m *MemoryInteractions) Events(userID string) []domain.InteractionEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.InteractionEvent
	for _, e := range m.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}
