package ticket

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.RWMutex
	tickets map[string]Ticket
}

// NewMemoryStore constructs an in-memory Store for tests and development.
func NewMemoryStore() Store {
	return &memoryStore{tickets: make(map[string]Ticket)}
}

func (m *memoryStore) Insert(_ context.Context, t *Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tickets[t.ID]; exists {
		return fmt.Errorf("ticket %s already exists", t.ID)
	}
	m.tickets[t.ID] = *t
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %s not found", id)
	}
	cp := t
	return &cp, nil
}

func (m *memoryStore) ListIssuedBetween(_ context.Context, identity string, from, to time.Time) ([]Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Ticket
	for _, t := range m.tickets {
		if t.Identity != identity {
			continue
		}
		if t.IssuedAt.Before(from) || !t.IssuedAt.Before(to) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return out, nil
}

func (m *memoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tickets), nil
}
