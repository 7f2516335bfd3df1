package pass

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	passes map[string]Pass
}

// NewMemoryStore constructs an in-memory Store for tests and development.
func NewMemoryStore() Store {
	return &memoryStore{passes: make(map[string]Pass)}
}

func (m *memoryStore) Insert(_ context.Context, p *Pass) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.passes[p.ID]; exists {
		return fmt.Errorf("pass %s already exists", p.ID)
	}
	m.passes[p.ID] = *p
	return nil
}

func (m *memoryStore) ListByIdentity(_ context.Context, identity string) ([]Pass, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Pass
	for _, p := range m.passes {
		if p.Identity == identity {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.passes), nil
}
