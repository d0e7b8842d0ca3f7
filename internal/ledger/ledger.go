// Package ledger owns the per-user set of presale purchases: appending
// purchases, computing claimable state, executing claims under a
// per-user lock, and keeping memory and the external store consistent.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"presale-vesting-service/internal/domain"
	"presale-vesting-service/internal/idhash"
	"presale-vesting-service/internal/observability"
	"presale-vesting-service/internal/storage"
	"presale-vesting-service/internal/vesting"
)

// Options configures a Ledger.
type Options struct {
	Store  storage.PurchaseStore
	Events storage.EventStore // optional analytics sink

	// SoleWriter declares that no other process writes this store
	// (single session, no shared tabs). When false, claims re-read the
	// persisted state before evaluating so a claim never trusts a
	// cached snapshot older than the ledger's own last write.
	SoleWriter bool

	Logger *log.Logger
}

// Ledger manages purchases and claims for all users of a session.
type Ledger struct {
	store      storage.PurchaseStore
	events     storage.EventStore
	soleWriter bool
	logger     *log.Logger

	mu    sync.Mutex
	users map[string]*userState
}

// userState serializes all operations for one user. Claims take this
// lock for the whole check-then-mutate-then-persist sequence, so two
// concurrent claims on the same tranche cannot both pass the check.
type userState struct {
	mu        sync.Mutex
	loaded    bool
	purchases []*domain.Purchase
}

// New creates a Ledger.
func New(opts Options) (*Ledger, error) {
	if opts.Store == nil {
		return nil, errors.New("ledger: store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Ledger{
		store:      opts.Store,
		events:     opts.Events,
		soleWriter: opts.SoleWriter,
		logger:     logger,
		users:      make(map[string]*userState),
	}, nil
}

// PurchaseParams describes a purchase to record.
type PurchaseParams struct {
	NativeSpent     float64
	StableSpent     float64
	TokensPurchased float64
	PriceContext    domain.PriceContext
	VestingConfig   domain.VestingConfig
	At              time.Time
}

// AddPurchase builds a vesting schedule for the purchase, assigns a
// collision-resistant id, appends it to the user's list and persists.
// On a store failure the in-memory append is rolled back and
// ErrPersistence is returned.
func (l *Ledger) AddPurchase(ctx context.Context, userID string, p PurchaseParams) (*domain.Purchase, error) {
	schedule, err := vesting.Build(p.TokensPurchased, p.VestingConfig)
	if err != nil {
		return nil, err
	}

	id, err := idhash.NewPurchaseID(userID, p.At)
	if err != nil {
		return nil, fmt.Errorf("generate purchase id: %w", err)
	}

	purchase := &domain.Purchase{
		ID:              id,
		PurchaseInstant: p.At,
		NativeSpent:     p.NativeSpent,
		StableSpent:     p.StableSpent,
		TokensPurchased: p.TokensPurchased,
		PriceContext:    p.PriceContext,
		VestingSchedule: *schedule,
	}

	state := l.userState(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if err := l.ensureLoaded(ctx, userID, state); err != nil {
		return nil, err
	}

	state.purchases = append(state.purchases, purchase)
	if err := l.persist(ctx, userID, state); err != nil {
		// Roll back the append so memory and store stay consistent.
		state.purchases = state.purchases[:len(state.purchases)-1]
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	l.recordEvent(ctx, &domain.PresaleEvent{
		EventType:    domain.EventTypePurchase,
		UserID:       userID,
		PurchaseID:   purchase.ID,
		TrancheIndex: -1,
		TokenAmount:  purchase.TokensPurchased,
		NativeSpent:  purchase.NativeSpent,
		StableSpent:  purchase.StableSpent,
		OccurredAt:   p.At,
	})
	observability.RecordPurchase(purchase.TokensPurchased)

	return clonePurchase(purchase), nil
}

// ListPurchases returns the user's purchases in insertion order.
func (l *Ledger) ListPurchases(ctx context.Context, userID string) ([]*domain.Purchase, error) {
	state := l.userState(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if err := l.ensureLoaded(ctx, userID, state); err != nil {
		return nil, err
	}

	out := make([]*domain.Purchase, len(state.purchases))
	for i, p := range state.purchases {
		out[i] = clonePurchase(p)
	}
	return out, nil
}

// Claim claims one tranche of one purchase at the given instant and
// returns the claimed amount.
//
// The whole check-then-mutate runs under the user's lock, before any
// persistence I/O, so a double-submit cannot pass the already-claimed
// check twice. If persistence fails after the in-memory claim, the
// claim stays applied and ErrClaimPersistence is returned.
func (l *Ledger) Claim(ctx context.Context, userID, purchaseID string, trancheIdx int, now time.Time) (float64, error) {
	state := l.userState(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if l.soleWriter {
		if err := l.ensureLoaded(ctx, userID, state); err != nil {
			return 0, err
		}
	} else {
		// Another writer may have claimed since our last read.
		if err := l.reload(ctx, userID, state); err != nil {
			return 0, err
		}
	}

	purchase := findPurchase(state.purchases, purchaseID)
	if purchase == nil {
		return 0, fmt.Errorf("%w: %s", ErrPurchaseNotFound, purchaseID)
	}

	amount, err := vesting.Claim(&purchase.VestingSchedule, trancheIdx, now)
	if err != nil {
		observability.RecordClaimError(claimErrorReason(err))
		return 0, err
	}

	if err := l.persist(ctx, userID, state); err != nil {
		l.logger.Printf("claim persist failed for user %s purchase %s tranche %d: %v",
			userID, purchaseID, trancheIdx, err)
		return amount, fmt.Errorf("%w: %v", ErrClaimPersistence, err)
	}

	l.recordEvent(ctx, &domain.PresaleEvent{
		EventType:      domain.EventTypeClaim,
		UserID:         userID,
		PurchaseID:     purchaseID,
		TrancheIndex:   int32(trancheIdx),
		TokenAmount:    amount,
		TransactionRef: purchase.TransactionRef,
		OccurredAt:     now,
	})
	observability.RecordClaim(amount, float64(now.Unix()))

	return amount, nil
}

// SnapshotPurchase computes the claimable view of one purchase.
func (l *Ledger) SnapshotPurchase(ctx context.Context, userID, purchaseID string, now time.Time) (domain.ClaimSnapshot, error) {
	state := l.userState(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if err := l.ensureLoaded(ctx, userID, state); err != nil {
		return domain.ClaimSnapshot{}, err
	}

	purchase := findPurchase(state.purchases, purchaseID)
	if purchase == nil {
		return domain.ClaimSnapshot{}, fmt.Errorf("%w: %s", ErrPurchaseNotFound, purchaseID)
	}

	return vesting.Snapshot(&purchase.VestingSchedule, now), nil
}

// SetTransactionRef records the chain collaborator's transaction
// reference on a purchase after the submit completed.
func (l *Ledger) SetTransactionRef(ctx context.Context, userID, purchaseID, ref string) error {
	state := l.userState(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if err := l.ensureLoaded(ctx, userID, state); err != nil {
		return err
	}

	purchase := findPurchase(state.purchases, purchaseID)
	if purchase == nil {
		return fmt.Errorf("%w: %s", ErrPurchaseNotFound, purchaseID)
	}

	prev := purchase.TransactionRef
	purchase.TransactionRef = ref
	if err := l.persist(ctx, userID, state); err != nil {
		purchase.TransactionRef = prev
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Aggregate sums vesting state across all of the user's purchases.
// Only persisted purchases contribute; nothing is ever synthesized.
func (l *Ledger) Aggregate(ctx context.Context, userID string, now time.Time) (domain.UserAggregate, error) {
	state := l.userState(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if err := l.ensureLoaded(ctx, userID, state); err != nil {
		return domain.UserAggregate{}, err
	}

	var agg domain.UserAggregate
	for _, p := range state.purchases {
		snap := vesting.Snapshot(&p.VestingSchedule, now)
		agg.TotalPurchased += p.TokensPurchased
		agg.TotalClaimableNow += snap.TotalClaimable
		agg.TotalClaimed += vesting.TotalClaimed(&p.VestingSchedule)
		agg.TotalRemaining += vesting.TotalRemaining(&p.VestingSchedule)
	}
	return agg, nil
}

// userState returns the state for a user, creating it on first use.
func (l *Ledger) userState(userID string) *userState {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.users[userID]
	if !ok {
		state = &userState{}
		l.users[userID] = state
	}
	return state
}

// ensureLoaded populates the user's purchases from the store once.
// Caller must hold state.mu.
func (l *Ledger) ensureLoaded(ctx context.Context, userID string, state *userState) error {
	if state.loaded {
		return nil
	}
	return l.reload(ctx, userID, state)
}

// reload replaces the in-memory purchases with the persisted record.
// A missing record means the user simply has no purchases yet.
// Caller must hold state.mu.
func (l *Ledger) reload(ctx context.Context, userID string, state *userState) error {
	record, err := l.store.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			state.purchases = nil
			state.loaded = true
			return nil
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	state.purchases = record.Purchases
	state.loaded = true
	return nil
}

// persist writes the user's purchases to the store.
// Caller must hold state.mu.
func (l *Ledger) persist(ctx context.Context, userID string, state *userState) error {
	record := &storage.PurchaseRecord{
		Version:   storage.RecordVersion,
		Purchases: state.purchases,
	}
	return l.store.Save(ctx, userID, record)
}

// recordEvent appends an analytics event. Analytics are best effort:
// a failure is logged, never surfaced to the caller.
func (l *Ledger) recordEvent(ctx context.Context, e *domain.PresaleEvent) {
	if l.events == nil {
		return
	}
	if err := l.events.Insert(ctx, e); err != nil {
		l.logger.Printf("record %s event for user %s: %v", e.EventType, e.UserID, err)
	}
}

// claimErrorReason maps claim rejections to a stable metric label.
func claimErrorReason(err error) string {
	switch {
	case errors.Is(err, vesting.ErrTrancheNotFound):
		return "tranche_not_found"
	case errors.Is(err, vesting.ErrAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, vesting.ErrNotYetUnlocked):
		return "not_yet_unlocked"
	default:
		return "other"
	}
}

func findPurchase(purchases []*domain.Purchase, id string) *domain.Purchase {
	for _, p := range purchases {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func clonePurchase(p *domain.Purchase) *domain.Purchase {
	cp := *p
	cp.VestingSchedule.Tranches = make([]domain.Tranche, len(p.VestingSchedule.Tranches))
	copy(cp.VestingSchedule.Tranches, p.VestingSchedule.Tranches)
	return &cp
}
