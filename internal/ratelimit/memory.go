package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count       int
	windowStart time.Time
}

// MemoryStore is a per-process counter store. It provides no cross-instance
// guarantee and is only suitable as a secondary defense layer; multi-instance
// deployments need the database store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string, maxRequests int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || now.Sub(entry.windowStart) >= window {
		s.entries[key] = &memoryEntry{count: 1, windowStart: now}
		return true, nil
	}

	if entry.count < maxRequests {
		entry.count++
		return true, nil
	}
	return false, nil
}

// Sweep drops entries whose window expired before cutoff. Called periodically
// to keep the map from growing without bound.
func (s *MemoryStore) Sweep(olderThan time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-olderThan)
	for key, entry := range s.entries {
		if entry.windowStart.Before(cutoff) {
			delete(s.entries, key)
		}
	}
}
