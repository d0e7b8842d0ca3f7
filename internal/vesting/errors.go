package vesting

import "errors"

// Vesting errors. All are sentinel values so callers can branch on them
// (show "already claimed" vs "try again") instead of parsing strings.
var (
	// ErrInvalidConfig is returned when tranche percentages are empty,
	// do not sum to exactly 100, or the token amount is negative.
	ErrInvalidConfig = errors.New("invalid vesting config")

	// ErrTrancheNotFound is returned when a tranche index is out of range.
	ErrTrancheNotFound = errors.New("tranche not found")

	// ErrAlreadyClaimed is returned when a tranche was claimed before.
	// A second claim attempt is an error, not a no-op, so callers can
	// detect and report double-claim attempts.
	ErrAlreadyClaimed = errors.New("tranche already claimed")

	// ErrNotYetUnlocked is returned when a claim arrives before the
	// tranche's unlock instant.
	ErrNotYetUnlocked = errors.New("tranche not yet unlocked")
)
