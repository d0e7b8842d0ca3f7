package domain

import "time"

// VestingConfig describes how purchased tokens unlock after listing.
// Percentages are ordered and must sum to exactly 100.
type VestingConfig struct {
	ListingInstant     time.Time `json:"listing_instant"`
	TranchePercentages []float64 `json:"tranche_percentages"`
	TrancheSpacingDays int       `json:"tranche_spacing_days"`
}

// Tranche is one scheduled unlock portion of a vesting schedule.
// ClaimedAmount is 0 until the tranche is claimed, then equals the
// full tranche amount (claims are all-or-nothing per tranche).
type Tranche struct {
	Percentage    float64   `json:"percentage"`
	UnlockInstant time.Time `json:"unlock_instant"`
	ClaimedAmount float64   `json:"claimed_amount"`
}

// VestingSchedule is derived once from VestingConfig + totalTokens at
// purchase time. The stored percentages are authoritative: later config
// changes never affect an existing schedule. Only ClaimedAmount fields
// are mutated after creation, and only by the claim engine.
type VestingSchedule struct {
	TotalTokens    float64   `json:"total_tokens"`
	ListingInstant time.Time `json:"listing_instant"`
	Tranches       []Tranche `json:"tranches"`
}

// TrancheAmount returns the token amount of tranche i.
func (s *VestingSchedule) TrancheAmount(i int) float64 {
	return s.TotalTokens * s.Tranches[i].Percentage / 100
}
