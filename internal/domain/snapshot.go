package domain

import "time"

// TrancheStatus is the computed state of a single tranche at a given instant.
type TrancheStatus struct {
	Index         int       `json:"index"`
	Percentage    float64   `json:"percentage"`
	Amount        float64   `json:"amount"`
	UnlockInstant time.Time `json:"unlock_instant"`
	IsClaimed     bool      `json:"is_claimed"`
	IsUnlocked    bool      `json:"is_unlocked"`
}

// ClaimSnapshot is the claimable view of a schedule at a given instant.
// Recomputed on demand, never persisted. NextUnlockInstant is nil when
// every remaining tranche is already claimed or unlocked.
type ClaimSnapshot struct {
	TotalClaimable    float64         `json:"total_claimable"`
	Tranches          []TrancheStatus `json:"tranches"`
	NextUnlockInstant *time.Time      `json:"next_unlock_instant,omitempty"`
	NextUnlockAmount  float64         `json:"next_unlock_amount,omitempty"`
}

// UserAggregate sums vesting state across all of a user's purchases.
type UserAggregate struct {
	TotalPurchased    float64 `json:"total_purchased"`
	TotalClaimableNow float64 `json:"total_claimable_now"`
	TotalClaimed      float64 `json:"total_claimed"`
	TotalRemaining    float64 `json:"total_remaining"`
}
