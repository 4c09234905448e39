package state

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	conversation Conversation
	deadline     time.Time
}

// MemoryStore keeps conversation state in-process. Entries carry a
// deadline; Sweep drops expired ones and is meant to run on a cron
// schedule.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[int64]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[int64]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[userID]
	if !ok || s.now().After(e.deadline) {
		return Idle, nil
	}
	return e.conversation, nil
}

func (s *MemoryStore) Set(_ context.Context, userID int64, c Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[userID] = entry{conversation: c, deadline: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, userID)
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for userID, e := range s.entries {
		if now.After(e.deadline) {
			delete(s.entries, userID)
			dropped++
		}
	}
	return dropped
}
