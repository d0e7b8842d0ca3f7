// Package vesting implements the vesting schedule builder and the claim
// engine: deterministic tranche unlock schedules derived from a purchase,
// and time-gated, no-double-claim tranche claiming over them.
package vesting

import (
	"fmt"
	"math"

	"presale-vesting-service/internal/domain"
)

// percentSumEpsilon tolerates floating rounding in configured percentages
// (e.g. 33.33+33.33+33.34).
const percentSumEpsilon = 1e-9

// Build derives an immutable vesting schedule from a purchased token
// amount and a vesting configuration.
//
// Tranche i amount = totalTokens * percentages[i] / 100.
// Tranche i unlock = listing + i * spacingDays days.
//
// Returns ErrInvalidConfig when the percentages are empty or do not sum
// to exactly 100, when spacing is not positive, or when totalTokens < 0.
func Build(totalTokens float64, cfg domain.VestingConfig) (*domain.VestingSchedule, error) {
	if totalTokens < 0 || math.IsNaN(totalTokens) || math.IsInf(totalTokens, 0) {
		return nil, fmt.Errorf("%w: total tokens %v", ErrInvalidConfig, totalTokens)
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	tranches := make([]domain.Tranche, len(cfg.TranchePercentages))
	for i, pct := range cfg.TranchePercentages {
		tranches[i] = domain.Tranche{
			Percentage:    pct,
			UnlockInstant: cfg.ListingInstant.AddDate(0, 0, i*cfg.TrancheSpacingDays),
			ClaimedAmount: 0,
		}
	}

	return &domain.VestingSchedule{
		TotalTokens:    totalTokens,
		ListingInstant: cfg.ListingInstant,
		Tranches:       tranches,
	}, nil
}

// ValidateConfig checks the financial invariants of a vesting config.
func ValidateConfig(cfg domain.VestingConfig) error {
	if len(cfg.TranchePercentages) == 0 {
		return fmt.Errorf("%w: no tranche percentages", ErrInvalidConfig)
	}
	if cfg.TrancheSpacingDays <= 0 {
		return fmt.Errorf("%w: tranche spacing %d days", ErrInvalidConfig, cfg.TrancheSpacingDays)
	}
	if cfg.ListingInstant.IsZero() {
		return fmt.Errorf("%w: listing instant not set", ErrInvalidConfig)
	}

	sum := 0.0
	for i, pct := range cfg.TranchePercentages {
		if pct <= 0 || math.IsNaN(pct) {
			return fmt.Errorf("%w: tranche %d percentage %v", ErrInvalidConfig, i, pct)
		}
		sum += pct
	}
	if math.Abs(sum-100) > percentSumEpsilon {
		return fmt.Errorf("%w: percentages sum to %v, want 100", ErrInvalidConfig, sum)
	}
	return nil
}
