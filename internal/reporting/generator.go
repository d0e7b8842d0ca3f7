// Package reporting turns ledger state into user-facing vesting
// statements, rendered as Markdown or CSV.
package reporting

import (
	"context"
	"fmt"
	"time"

	"presale-vesting-service/internal/ledger"
	"presale-vesting-service/internal/storage"
)

// Generator produces statements from the ledger.
type Generator struct {
	ledger *ledger.Ledger
	events storage.EventStore // optional
	now    func() time.Time   // Injectable clock for deterministic output
}

// NewGenerator creates a statement generator. The event store may be
// nil; the statement then carries no activity section.
func NewGenerator(l *ledger.Ledger, events storage.EventStore) *Generator {
	return &Generator{
		ledger: l,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces the statement for one user.
func (g *Generator) Generate(ctx context.Context, userID string) (*Statement, error) {
	now := g.now()

	purchases, err := g.ledger.ListPurchases(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	agg, err := g.ledger.Aggregate(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	statement := &Statement{
		GeneratedAt:       now,
		UserID:            userID,
		PurchaseCount:     len(purchases),
		TotalPurchased:    agg.TotalPurchased,
		TotalClaimed:      agg.TotalClaimed,
		TotalClaimableNow: agg.TotalClaimableNow,
		TotalRemaining:    agg.TotalRemaining,
	}

	for _, p := range purchases {
		statement.Purchases = append(statement.Purchases, PurchaseRow{
			PurchaseID:      p.ID,
			PurchasedAt:     p.PurchaseInstant,
			NativeSpent:     p.NativeSpent,
			StableSpent:     p.StableSpent,
			TokensPurchased: p.TokensPurchased,
			NativeUSDPrice:  p.PriceContext.NativeUSDPrice,
			TokenUSDPrice:   p.PriceContext.TokenUSDPrice,
			PriceDegraded:   p.PriceContext.Degraded,
			TransactionRef:  p.TransactionRef,
		})

		snap, err := g.ledger.SnapshotPurchase(ctx, userID, p.ID, now)
		if err != nil {
			return nil, fmt.Errorf("snapshot purchase %s: %w", p.ID, err)
		}
		for _, t := range snap.Tranches {
			status := StatusLocked
			switch {
			case t.IsClaimed:
				status = StatusClaimed
			case t.IsUnlocked:
				status = StatusClaimable
			}
			statement.Tranches = append(statement.Tranches, TrancheRow{
				PurchaseID: p.ID,
				Index:      t.Index,
				Percentage: t.Percentage,
				Amount:     t.Amount,
				UnlockAt:   t.UnlockInstant,
				Status:     status,
			})
		}
	}

	if g.events != nil {
		events, err := g.events.GetByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load events: %w", err)
		}
		for _, e := range events {
			statement.Events = append(statement.Events, EventRow{
				OccurredAt:     e.OccurredAt,
				EventType:      e.EventType,
				PurchaseID:     e.PurchaseID,
				TrancheIndex:   e.TrancheIndex,
				TokenAmount:    e.TokenAmount,
				TransactionRef: e.TransactionRef,
			})
		}
	}

	return statement, nil
}
