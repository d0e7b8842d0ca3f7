// Package memory provides in-memory storage implementations for tests
// and the simulated backend.
package memory

import (
	"context"
	"sync"

	"presale-vesting-service/internal/storage"
)

// PurchaseStore is an in-memory implementation of storage.PurchaseStore.
type PurchaseStore struct {
	mu   sync.RWMutex
	data map[string]*storage.PurchaseRecord // keyed by user id
}

// NewPurchaseStore creates a new in-memory purchase store.
func NewPurchaseStore() *PurchaseStore {
	return &PurchaseStore{
		data: make(map[string]*storage.PurchaseRecord),
	}
}

// Load retrieves the user's record. Returns ErrNotFound if absent.
func (s *PurchaseStore) Load(_ context.Context, userID string) (*storage.PurchaseRecord, error) {
	if userID == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.data[userID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy to prevent external mutation
	return record.Clone(), nil
}

// Save writes the user's record, replacing any previous version.
func (s *PurchaseStore) Save(_ context.Context, userID string, record *storage.PurchaseRecord) error {
	if userID == "" || record == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[userID] = record.Clone()
	return nil
}

// Delete removes the user's record.
func (s *PurchaseStore) Delete(_ context.Context, userID string) error {
	if userID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, userID)
	return nil
}

// Verify interface compliance at compile time.
var _ storage.PurchaseStore = (*PurchaseStore)(nil)
