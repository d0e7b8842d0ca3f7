package postgres

import (
	"context"
	"fmt"
	"time"

	"presale-vesting-service/internal/observability"
	"presale-vesting-service/internal/storage"
)

// PurchaseStore implements storage.PurchaseStore using PostgreSQL.
// One row per user holding the versioned JSON record.
type PurchaseStore struct {
	pool *Pool
}

// NewPurchaseStore creates a new PurchaseStore.
func NewPurchaseStore(pool *Pool) *PurchaseStore {
	return &PurchaseStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PurchaseStore = (*PurchaseStore)(nil)

// Load retrieves the user's record. Returns ErrNotFound if absent.
func (s *PurchaseStore) Load(ctx context.Context, userID string) (record *storage.PurchaseRecord, err error) {
	if userID == "" {
		return nil, storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("postgres", "load_purchase_record", time.Since(start).Seconds(), err)
	}()

	query := `
		SELECT record
		FROM purchase_records
		WHERE user_id = $1
	`

	var data []byte
	if err = s.pool.QueryRow(ctx, query, userID).Scan(&data); err != nil {
		if isNotFoundError(err) {
			err = storage.ErrNotFound
			return nil, err
		}
		return nil, fmt.Errorf("load purchase record: %w", err)
	}

	record, err = storage.DecodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("load purchase record: %w", err)
	}
	return record, nil
}

// Save writes the user's record, replacing any previous version.
func (s *PurchaseStore) Save(ctx context.Context, userID string, record *storage.PurchaseRecord) (err error) {
	if userID == "" || record == nil {
		return storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("postgres", "save_purchase_record", time.Since(start).Seconds(), err)
	}()

	data, err := storage.EncodeRecord(record)
	if err != nil {
		return fmt.Errorf("save purchase record: %w", err)
	}

	query := `
		INSERT INTO purchase_records (user_id, version, record, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET version = EXCLUDED.version, record = EXCLUDED.record, updated_at = EXCLUDED.updated_at
	`

	_, err = s.pool.Exec(ctx, query, userID, record.Version, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save purchase record: %w", err)
	}
	return nil
}

// Delete removes the user's record.
func (s *PurchaseStore) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return storage.ErrInvalidInput
	}

	query := `DELETE FROM purchase_records WHERE user_id = $1`

	_, err := s.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete purchase record: %w", err)
	}
	return nil
}
