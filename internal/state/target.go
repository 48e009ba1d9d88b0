package state

import "sync"

// TargetStore holds the single remote target all commands operate against.
type TargetStore interface {
	Current() string
	Set(string)
}

type targetStore struct {
	mu      sync.RWMutex
	current string
}

func NewTargetStore() TargetStore {
	return &targetStore{}
}

func (s *targetStore) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *targetStore) Set(value string) {
	s.mu.Lock()
	s.current = value
	s.mu.Unlock()
}
