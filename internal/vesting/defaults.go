package vesting

import (
	"time"

	"presale-vesting-service/internal/domain"
)

// Default vesting terms: 40% at listing, then 20% every 30 days.
const DefaultTrancheSpacingDays = 30

// DefaultListingInstant is the scheduled token listing.
var DefaultListingInstant = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

// DefaultConfig returns the vesting terms applied to new purchases.
func DefaultConfig() domain.VestingConfig {
	return domain.VestingConfig{
		ListingInstant:     DefaultListingInstant,
		TranchePercentages: []float64{40, 20, 20, 20},
		TrancheSpacingDays: DefaultTrancheSpacingDays,
	}
}
