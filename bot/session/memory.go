package session

import (
	"context"
	"sync"
	"time"

	"github.com/m3rciful/transitbot/bot/i18n"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemoryStore constructs an in-memory Store implementation for tests and
// development.
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// NewMemoryStoreWithClock constructs an in-memory Store with an injected clock.
func NewMemoryStoreWithClock(now func() time.Time) Store {
	return &memoryStore{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

func (m *memoryStore) Get(_ context.Context, identity string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[identity]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (m *memoryStore) Create(_ context.Context, identity string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	sess, ok := m.sessions[identity]
	if !ok {
		sess = &Session{
			Identity:  identity,
			Language:  i18n.Default(),
			CreatedAt: now,
		}
		m.sessions[identity] = sess
	}
	sess.State = StateStart
	sess.Data = Data{}
	sess.UpdatedAt = now
	cp := *sess
	return &cp, nil
}

func (m *memoryStore) SetState(_ context.Context, identity string, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[identity]
	if !ok {
		return ErrNotFound
	}
	sess.State = st
	sess.UpdatedAt = m.now()
	return nil
}

func (m *memoryStore) SetLanguage(_ context.Context, identity string, lang i18n.Lang) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[identity]
	if !ok {
		return ErrNotFound
	}
	sess.Language = lang
	sess.UpdatedAt = m.now()
	return nil
}

func (m *memoryStore) MergeData(_ context.Context, identity string, patch Patch) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[identity]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&sess.Data)
	sess.UpdatedAt = m.now()
	cp := *sess
	return &cp, nil
}

func (m *memoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}
