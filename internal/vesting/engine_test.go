package vesting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presale-vesting-service/internal/domain"
)

func buildTestSchedule(t *testing.T, tokens float64) *domain.VestingSchedule {
	t.Helper()
	schedule, err := Build(tokens, testConfig())
	require.NoError(t, err)
	return schedule
}

func TestSnapshot_BeforeListing(t *testing.T) {
	schedule := buildTestSchedule(t, 1000)
	now := testListing.Add(-24 * time.Hour)

	snap := Snapshot(schedule, now)

	assert.Zero(t, snap.TotalClaimable)
	for _, tr := range snap.Tranches {
		assert.False(t, tr.IsUnlocked)
		assert.False(t, tr.IsClaimed)
	}
	require.NotNil(t, snap.NextUnlockInstant)
	assert.Equal(t, testListing, *snap.NextUnlockInstant)
	assert.Equal(t, 400.0, snap.NextUnlockAmount)
}

func TestSnapshot_FirstTrancheUnlocked(t *testing.T) {
	schedule := buildTestSchedule(t, 1000)
	now := testListing.Add(1 * time.Second)

	snap := Snapshot(schedule, now)

	assert.Equal(t, 400.0, snap.TotalClaimable)
	assert.True(t, snap.Tranches[0].IsUnlocked)
	for _, tr := range snap.Tranches[1:] {
		assert.False(t, tr.IsUnlocked, "tranche %d should still be locked", tr.Index)
	}
	require.NotNil(t, snap.NextUnlockInstant)
	assert.Equal(t, schedule.Tranches[1].UnlockInstant, *snap.NextUnlockInstant)
	assert.Equal(t, 200.0, snap.NextUnlockAmount)
}

func TestSnapshot_ExactUnlockInstant(t *testing.T) {
	schedule := buildTestSchedule(t, 1000)

	// now == unlock instant counts as unlocked
	snap := Snapshot(schedule, testListing)
	assert.True(t, snap.Tranches[0].IsUnlocked)
	assert.Equal(t, 400.0, snap.TotalClaimable)
}

func TestSnapshot_AllUnlocked(t *testing.T) {
	schedule := buildTestSchedule(t, 1000)
	now := schedule.Tranches[3].UnlockInstant.Add(time.Hour)

	snap := Snapshot(schedule, now)

	assert.Equal(t, 1000.0, snap.TotalClaimable)
	assert.Nil(t, snap.NextUnlockInstant)
	assert.Zero(t, snap.NextUnlockAmount)
}

func TestSnapshot_IsPure(t *testing.T) {
	schedule := buildTestSchedule(t, 1000)
	now := testListing.Add(time.Hour)

	first := Snapshot(schedule, now)
	second := Snapshot(schedule, now)

	assert.Equal(t, first, second)
	assert.Zero(t, TotalClaimed(schedule))
}

func TestClaim_Success(t *testing.T) {
	schedule := buildTestSchedule(t, 1000)
	now := testListing.AddDate(0, 0, 1)

	amount, err := Claim(schedule, 0, now)
	require.NoError(t, err)
	assert.Equal(t, 400.0, amount)

	snap := Snapshot(schedule, now)
	assert.Zero(t, snap.TotalClaimable)
	assert.True(t, snap.Tranches[0].IsClaimed)
	assert.Equal(t, 400.0, TotalClaimed(schedule))
	assert.Equal(t, 600.0, TotalRemaining(schedule))
}

func TestClaim_AlreadyClaimed(t *testing.T) {
	schedule := buildTestSchedule(t, 1000)
	now := testListing.AddDate(0, 0, 1)

	_, err := Claim(schedule, 0, now)
	require.NoError(t, err)

	// Second claim is an error, not a no-op
	_, err = Claim(schedule, 0, now)
	require.ErrorIs(t, err, ErrAlreadyClaimed)
	assert.Equal(t, 400.0, TotalClaimed(schedule))
}

func TestClaim_TimeGating(t *testing.T) {
	schedule := buildTestSchedule(t, 1000)
	unlock := schedule.Tranches[1].UnlockInstant

	_, err := Claim(schedule, 1, unlock.Add(-time.Second))
	require.ErrorIs(t, err, ErrNotYetUnlocked)

	// First attempt at the exact unlock instant succeeds
	amount, err := Claim(schedule, 1, unlock)
	require.NoError(t, err)
	assert.Equal(t, 200.0, amount)
}

func TestClaim_TrancheNotFound(t *testing.T) {
	schedule := buildTestSchedule(t, 1000)
	now := testListing.AddDate(0, 0, 1)

	_, err := Claim(schedule, -1, now)
	require.ErrorIs(t, err, ErrTrancheNotFound)

	_, err = Claim(schedule, 4, now)
	require.ErrorIs(t, err, ErrTrancheNotFound)
}

func TestClaim_Conservation(t *testing.T) {
	schedule := buildTestSchedule(t, 1000)
	now := schedule.Tranches[3].UnlockInstant.Add(time.Hour)

	prevClaimed := 0.0
	for i := range schedule.Tranches {
		_, err := Claim(schedule, i, now)
		require.NoError(t, err)

		claimed := TotalClaimed(schedule)
		assert.Greater(t, claimed, prevClaimed, "claimed total must be monotonic")
		assert.InDelta(t, 1000.0, claimed+TotalRemaining(schedule), 1e-9,
			"claimed + remaining must equal total")
		prevClaimed = claimed
	}

	assert.Equal(t, 1000.0, TotalClaimed(schedule))
	assert.Zero(t, TotalRemaining(schedule))
	assert.Equal(t, 100.0, ProgressPercent(schedule))
}

func TestProgressPercent_ZeroTokens(t *testing.T) {
	schedule := buildTestSchedule(t, 0)
	assert.Zero(t, ProgressPercent(schedule))
}
