package storage

import (
	"context"

	"presale-vesting-service/internal/domain"
)

// PurchaseStore persists one versioned purchase record per user.
// Keys are namespaced per user address; records are JSON-serializable.
type PurchaseStore interface {
	// Load retrieves the user's record. Returns ErrNotFound if the user
	// has no persisted purchases yet.
	Load(ctx context.Context, userID string) (*PurchaseRecord, error)

	// Save writes the user's record, replacing any previous version.
	Save(ctx context.Context, userID string, record *PurchaseRecord) error

	// Delete removes the user's record. Deleting a missing record is not
	// an error.
	Delete(ctx context.Context, userID string) error
}

// EventStore appends presale analytics events.
type EventStore interface {
	// Insert appends a single event.
	Insert(ctx context.Context, e *domain.PresaleEvent) error

	// GetByUser retrieves all events for a user, ordered by occurrence ASC.
	GetByUser(ctx context.Context, userID string) ([]*domain.PresaleEvent, error)
}
