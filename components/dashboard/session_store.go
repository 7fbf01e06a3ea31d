package dashboard

import (
	"context"
	"fmt"
	"sync"
)

// InMemorySessionStore provides a concurrency-safe default store. Sessions live
// for the lifetime of the process.
type InMemorySessionStore struct {
	mu   sync.RWMutex
	data map[string]Session
}

// NewInMemorySessionStore creates an empty session store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		data: make(map[string]Session),
	}
}

// Load returns a copy of the stored session, if any.
func (s *InMemorySessionStore) Load(_ context.Context, key string) (Session, bool, error) {
	if key == "" {
		return Session{}, false, fmt.Errorf("session store requires a key")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.data[key]
	if !ok {
		return Session{}, false, nil
	}
	return session.Clone(), true, nil
}

// Save stores a copy of the session under key.
func (s *InMemorySessionStore) Save(_ context.Context, key string, session Session) error {
	if key == "" {
		return fmt.Errorf("session store requires a key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = session.Clone()
	return nil
}

// Delete forgets the session under key.
func (s *InMemorySessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len reports how many sessions are held.
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
