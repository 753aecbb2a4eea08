package server

import (
	"sync"
	"time"
)

// entry holds the artifacts of one processed upload.
type entry struct {
	HTML      []byte
	JSON      []byte
	GraphHash string
	CreatedAt time.Time
}

// store is an in-memory, concurrency-safe map of upload ID to artifacts.
type store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func newStore() *store {
	return &store{entries: make(map[string]*entry)}
}

func (s *store) put(id string, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = e
}

func (s *store) get(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

func (s *store) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
