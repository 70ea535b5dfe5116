package storage

import (
	"context"
	"sync"

	"NewsGenie/internal/ports"
)

// MemoryProfiles maps user ids to preferred topics.
type MemoryProfiles struct {
	mu     sync.RWMutex
	topics map[string][]string
}

var _ ports.ProfileStore = (*MemoryProfiles)(nil)

// NewMemoryProfiles copies seed into a new store.
func NewMemoryProfiles(seed map[string][]string) *MemoryProfiles {
	p := &MemoryProfiles{topics: make(map[string][]string, len(seed))}
	for user, topics := range seed {
		p.topics[user] = append([]string(nil), topics...)
	}
	return p
}

// Topics returns a copy of the stored topics.
func (p *MemoryProfiles) Topics(_ context.Context, userID string) ([]string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	topics, ok := p.topics[userID]
	if !ok {
		return nil, false
	}
	return append([]string{}, topics...), true
}

// Remember replaces the user's topics.
func (p *MemoryProfiles) Remember(_ context.Context, userID string, topics []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.topics[userID] = append([]string(nil), topics...)
}
