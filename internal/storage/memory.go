package storage

import (
	"context"
	"sync"

	"github.com/sentryline-systems/sentryline-receiver/internal/models"
)

// MemoryStore is an in-memory EventStore for tests. SetErr makes every
// Insert fail, simulating a storage outage.
type MemoryStore struct {
	mu     sync.Mutex
	events []*models.Event
	err    error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, event *models.Event) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}

	copied := *event
	s.events = append(s.events, &copied)
	return event.ID, nil
}

// Events returns a snapshot of everything stored so far.
func (s *MemoryStore) Events() []*models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// SetErr toggles the simulated outage.
func (s *MemoryStore) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
