package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is a non-durable Store, used in tests and as the fallback
// when no persistent backend is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	seen map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]time.Time)}
}

func (m *MemoryStore) Has(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.seen[id]
	return ok, nil
}

func (m *MemoryStore) Find(ctx context.Context, id string) (*SeenMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ts, ok := m.seen[id]
	if !ok {
		return nil, fmt.Errorf("message %s: %w", id, ErrNotFound)
	}
	return &SeenMessage{ID: id, SeenAt: ts}, nil
}

func (m *MemoryStore) Insert(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.seen[id]; !ok {
		m.seen[id] = time.Now().UTC()
	}
	return nil
}

func (m *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &Stats{Driver: DriverMemory, TotalSeen: int64(len(m.seen))}
	for _, ts := range m.seen {
		if stats.OldestSeen.IsZero() || ts.Before(stats.OldestSeen) {
			stats.OldestSeen = ts
		}
		if ts.After(stats.NewestSeen) {
			stats.NewestSeen = ts
		}
	}
	return stats, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
