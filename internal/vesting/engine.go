package vesting

import (
	"fmt"
	"time"

	"presale-vesting-service/internal/domain"
)

// Per-tranche state machine: Locked -> Unlocked -> Claimed.
// Locked -> Unlocked is a pure function of time (now >= unlock instant);
// Unlocked -> Claimed happens only through Claim.

// Snapshot computes the claimable view of a schedule at the given
// instant. Side-effect free, callable any number of times.
func Snapshot(schedule *domain.VestingSchedule, now time.Time) domain.ClaimSnapshot {
	snap := domain.ClaimSnapshot{
		Tranches: make([]domain.TrancheStatus, 0, len(schedule.Tranches)),
	}

	for i, tr := range schedule.Tranches {
		amount := schedule.TrancheAmount(i)
		isUnlocked := !now.Before(tr.UnlockInstant)
		isClaimed := tr.ClaimedAmount > 0

		if isUnlocked && !isClaimed {
			snap.TotalClaimable += amount
		}

		// Earliest still-locked unclaimed tranche drives the countdown.
		if snap.NextUnlockInstant == nil && !isClaimed && tr.UnlockInstant.After(now) {
			unlock := tr.UnlockInstant
			snap.NextUnlockInstant = &unlock
			snap.NextUnlockAmount = amount
		}

		snap.Tranches = append(snap.Tranches, domain.TrancheStatus{
			Index:         i,
			Percentage:    tr.Percentage,
			Amount:        amount,
			UnlockInstant: tr.UnlockInstant,
			IsClaimed:     isClaimed,
			IsUnlocked:    isUnlocked,
		})
	}

	return snap
}

// Claim marks tranche trancheIdx as claimed and returns the claimed
// amount. Claims are all-or-nothing per tranche: on success the
// tranche's ClaimedAmount is set to its full amount.
//
// The check-then-mutate here is synchronous; callers that share a
// schedule across goroutines must serialize Claim calls per schedule
// (the purchase ledger holds a per-purchase lock).
func Claim(schedule *domain.VestingSchedule, trancheIdx int, now time.Time) (float64, error) {
	if trancheIdx < 0 || trancheIdx >= len(schedule.Tranches) {
		return 0, fmt.Errorf("%w: index %d of %d", ErrTrancheNotFound, trancheIdx, len(schedule.Tranches))
	}

	tr := &schedule.Tranches[trancheIdx]
	if tr.ClaimedAmount > 0 {
		return 0, fmt.Errorf("%w: tranche %d", ErrAlreadyClaimed, trancheIdx)
	}
	if now.Before(tr.UnlockInstant) {
		return 0, fmt.Errorf("%w: tranche %d unlocks at %s", ErrNotYetUnlocked,
			trancheIdx, tr.UnlockInstant.UTC().Format(time.RFC3339))
	}

	amount := schedule.TrancheAmount(trancheIdx)
	tr.ClaimedAmount = amount
	return amount, nil
}

// TotalClaimed sums the claimed amounts across all tranches.
func TotalClaimed(schedule *domain.VestingSchedule) float64 {
	total := 0.0
	for _, tr := range schedule.Tranches {
		total += tr.ClaimedAmount
	}
	return total
}

// TotalRemaining is the unclaimed remainder of the schedule.
func TotalRemaining(schedule *domain.VestingSchedule) float64 {
	return schedule.TotalTokens - TotalClaimed(schedule)
}

// ProgressPercent is the claimed share of the schedule, 0-100.
// Returns 0 for an empty schedule.
func ProgressPercent(schedule *domain.VestingSchedule) float64 {
	if schedule.TotalTokens == 0 {
		return 0
	}
	return TotalClaimed(schedule) / schedule.TotalTokens * 100
}
