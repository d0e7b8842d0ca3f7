package reporting

import "time"

// Statement is a user's full vesting statement at a point in time.
type Statement struct {
	// Metadata
	GeneratedAt   time.Time
	UserID        string
	PurchaseCount int

	// Totals across all purchases
	TotalPurchased    float64
	TotalClaimed      float64
	TotalClaimableNow float64
	TotalRemaining    float64

	// Purchases (insertion order)
	Purchases []PurchaseRow

	// Tranches of every purchase (purchase order, then tranche index)
	Tranches []TrancheRow

	// Recorded activity, oldest first. Empty when no analytics store
	// is configured.
	Events []EventRow
}

// PurchaseRow is one purchase in the statement.
type PurchaseRow struct {
	PurchaseID      string
	PurchasedAt     time.Time
	NativeSpent     float64
	StableSpent     float64
	TokensPurchased float64
	NativeUSDPrice  float64
	TokenUSDPrice   float64
	PriceDegraded   bool
	TransactionRef  string
}

// TrancheRow is one tranche of one purchase.
type TrancheRow struct {
	PurchaseID string
	Index      int
	Percentage float64
	Amount     float64
	UnlockAt   time.Time
	Status     string // locked | claimable | claimed
}

// EventRow is one recorded purchase or claim event.
type EventRow struct {
	OccurredAt     time.Time
	EventType      string
	PurchaseID     string
	TrancheIndex   int32
	TokenAmount    float64
	TransactionRef string
}

// Tranche status labels.
const (
	StatusLocked    = "locked"
	StatusClaimable = "claimable"
	StatusClaimed   = "claimed"
)
