package domain

import "time"

// PriceContext captures the prices in effect when a purchase was made.
type PriceContext struct {
	NativeUSDPrice float64 `json:"native_usd_price"`
	TokenUSDPrice  float64 `json:"token_usd_price"`
	// Degraded marks the native price as a fallback/stale value from the oracle.
	Degraded bool `json:"degraded,omitempty"`
}

// Purchase is one presale purchase and its attached vesting schedule.
// Purchases are never deleted; a fully claimed purchase is terminal but
// stays in the ledger.
type Purchase struct {
	ID              string          `json:"id"`
	PurchaseInstant time.Time       `json:"purchase_instant"`
	NativeSpent     float64         `json:"native_spent"`
	StableSpent     float64         `json:"stable_spent"`
	TokensPurchased float64         `json:"tokens_purchased"`
	PriceContext    PriceContext    `json:"price_context"`
	VestingSchedule VestingSchedule `json:"vesting_schedule"`
	// TransactionRef is the opaque reference returned by the chain
	// collaborator. Empty until the submit completes.
	TransactionRef string `json:"transaction_ref,omitempty"`
}
