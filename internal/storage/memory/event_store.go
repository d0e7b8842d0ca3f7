package memory

import (
	"context"
	"sort"
	"sync"

	"presale-vesting-service/internal/domain"
	"presale-vesting-service/internal/storage"
)

// EventStore is an in-memory implementation of storage.EventStore.
type EventStore struct {
	mu     sync.RWMutex
	events []*domain.PresaleEvent
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// Insert appends a single event.
func (s *EventStore) Insert(_ context.Context, e *domain.PresaleEvent) error {
	if e == nil || e.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	eventCopy := *e
	s.events = append(s.events, &eventCopy)
	return nil
}

// GetByUser retrieves all events for a user, ordered by occurrence ASC.
func (s *EventStore) GetByUser(_ context.Context, userID string) ([]*domain.PresaleEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PresaleEvent
	for _, e := range s.events {
		if e.UserID == userID {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].OccurredAt.Before(result[j].OccurredAt)
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.EventStore = (*EventStore)(nil)
