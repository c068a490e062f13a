package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rariteth/go-cart/internal/domain"
)

// MemoryStore is an in-process session tier for tests and single-node
// deployments without redis. Entries are kept as serialized snapshots so the
// store has the same copy semantics as the redis implementation.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (domain.Collection, error) {
	m.mu.RLock()
	data, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var items domain.Collection
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, items domain.Collection) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Forget(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
