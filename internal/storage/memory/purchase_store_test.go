package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presale-vesting-service/internal/domain"
	"presale-vesting-service/internal/storage"
)

func testRecord() *storage.PurchaseRecord {
	record := storage.NewRecord()
	record.Purchases = append(record.Purchases, &domain.Purchase{
		ID:              "p-1",
		PurchaseInstant: time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
		TokensPurchased: 1000,
		VestingSchedule: domain.VestingSchedule{
			TotalTokens: 1000,
			Tranches: []domain.Tranche{
				{Percentage: 100, UnlockInstant: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
			},
		},
	})
	return record
}

func TestPurchaseStore_SaveAndLoad(t *testing.T) {
	store := NewPurchaseStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user-1", testRecord()))

	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, loaded.Purchases, 1)
	assert.Equal(t, "p-1", loaded.Purchases[0].ID)
	assert.Equal(t, storage.RecordVersion, loaded.Version)
}

func TestPurchaseStore_LoadMissing(t *testing.T) {
	store := NewPurchaseStore()

	_, err := store.Load(context.Background(), "nobody")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPurchaseStore_CopiesOnLoad(t *testing.T) {
	store := NewPurchaseStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user-1", testRecord()))

	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)

	// Mutating the loaded record must not touch stored state
	loaded.Purchases[0].VestingSchedule.Tranches[0].ClaimedAmount = 999

	fresh, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, fresh.Purchases[0].VestingSchedule.Tranches[0].ClaimedAmount)
}

func TestPurchaseStore_Delete(t *testing.T) {
	store := NewPurchaseStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user-1", testRecord()))
	require.NoError(t, store.Delete(ctx, "user-1"))

	_, err := store.Load(ctx, "user-1")
	require.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting a missing record is not an error
	require.NoError(t, store.Delete(ctx, "user-1"))
}

func TestPurchaseStore_InvalidInput(t *testing.T) {
	store := NewPurchaseStore()
	ctx := context.Background()

	_, err := store.Load(ctx, "")
	require.ErrorIs(t, err, storage.ErrInvalidInput)
	require.ErrorIs(t, store.Save(ctx, "", testRecord()), storage.ErrInvalidInput)
	require.ErrorIs(t, store.Save(ctx, "user-1", nil), storage.ErrInvalidInput)
}

func TestEventStore_InsertAndGet(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	later := &domain.PresaleEvent{
		EventType:  domain.EventTypeClaim,
		UserID:     "user-1",
		PurchaseID: "p-1",
		OccurredAt: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
	}
	earlier := &domain.PresaleEvent{
		EventType:    domain.EventTypePurchase,
		UserID:       "user-1",
		PurchaseID:   "p-1",
		TrancheIndex: -1,
		OccurredAt:   time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Insert(ctx, later))
	require.NoError(t, store.Insert(ctx, earlier))
	require.NoError(t, store.Insert(ctx, &domain.PresaleEvent{
		EventType:  domain.EventTypePurchase,
		UserID:     "user-2",
		OccurredAt: time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC),
	}))

	events, err := store.GetByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventTypePurchase, events[0].EventType)
	assert.Equal(t, domain.EventTypeClaim, events[1].EventType)
}
