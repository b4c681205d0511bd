package services

import "sync"

// TokenRevocations is the set of refresh tokens that must no longer be
// honored. Injected into the auth service so tests can use the in-memory
// form and a durable backing can be swapped in later. Revocations live as
// long as the store does; the in-memory form forgets everything on
// restart.
type TokenRevocations interface {
	Add(token string)
	Contains(token string) bool
}

type memoryRevocations struct {
	mu  sync.RWMutex
	set map[string]struct{}
}

func NewMemoryRevocations() TokenRevocations {
	return &memoryRevocations{set: make(map[string]struct{})}
}

func (m *memoryRevocations) Add(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set[token] = struct{}{}
}

func (m *memoryRevocations) Contains(token string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.set[token]
	return ok
}
