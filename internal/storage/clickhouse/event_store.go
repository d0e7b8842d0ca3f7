package clickhouse

import (
	"context"
	"fmt"
	"time"

	"presale-vesting-service/internal/domain"
	"presale-vesting-service/internal/observability"
	"presale-vesting-service/internal/storage"
)

// EventStore implements storage.EventStore using ClickHouse.
type EventStore struct {
	conn *Conn
}

// NewEventStore creates a new EventStore.
func NewEventStore(conn *Conn) *EventStore {
	return &EventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

// Insert appends a single event.
func (s *EventStore) Insert(ctx context.Context, e *domain.PresaleEvent) (err error) {
	if e == nil || e.UserID == "" {
		return storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("clickhouse", "insert_presale_event", time.Since(start).Seconds(), err)
	}()

	query := `
		INSERT INTO presale_events (
			event_type, user_id, purchase_id, tranche_index,
			token_amount, native_spent, stable_spent, transaction_ref, occurred_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err = s.conn.Exec(ctx, query,
		e.EventType,
		e.UserID,
		e.PurchaseID,
		e.TrancheIndex,
		e.TokenAmount,
		e.NativeSpent,
		e.StableSpent,
		e.TransactionRef,
		e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert presale event: %w", err)
	}
	return nil
}

// GetByUser retrieves all events for a user, ordered by occurrence ASC.
func (s *EventStore) GetByUser(ctx context.Context, userID string) ([]*domain.PresaleEvent, error) {
	query := `
		SELECT event_type, user_id, purchase_id, tranche_index,
		       token_amount, native_spent, stable_spent, transaction_ref, occurred_at
		FROM presale_events
		WHERE user_id = ?
		ORDER BY occurred_at ASC
	`

	rows, err := s.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get events by user: %w", err)
	}
	defer rows.Close()

	var result []*domain.PresaleEvent
	for rows.Next() {
		var e domain.PresaleEvent
		if err := rows.Scan(
			&e.EventType,
			&e.UserID,
			&e.PurchaseID,
			&e.TrancheIndex,
			&e.TokenAmount,
			&e.NativeSpent,
			&e.StableSpent,
			&e.TransactionRef,
			&e.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan presale event: %w", err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presale events: %w", err)
	}

	return result, nil
}
