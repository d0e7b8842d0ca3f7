package domain

import "time"

// Presale event types recorded for analytics.
const (
	EventTypePurchase = "PURCHASE"
	EventTypeClaim    = "CLAIM"
)

// PresaleEvent is one append-only analytics row describing a purchase
// or a claim. Events are derived from ledger operations after they
// succeed; they are never the source of truth.
type PresaleEvent struct {
	EventType      string    `json:"event_type"`
	UserID         string    `json:"user_id"`
	PurchaseID     string    `json:"purchase_id"`
	TrancheIndex   int32     `json:"tranche_index"` // -1 for purchases
	TokenAmount    float64   `json:"token_amount"`
	NativeSpent    float64   `json:"native_spent"`
	StableSpent    float64   `json:"stable_spent"`
	TransactionRef string    `json:"transaction_ref"`
	OccurredAt     time.Time `json:"occurred_at"`
}
