package vesting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presale-vesting-service/internal/domain"
)

var testListing = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func testConfig() domain.VestingConfig {
	return domain.VestingConfig{
		ListingInstant:     testListing,
		TranchePercentages: []float64{40, 20, 20, 20},
		TrancheSpacingDays: 30,
	}
}

func TestBuild_Schedule(t *testing.T) {
	schedule, err := Build(1000, testConfig())
	require.NoError(t, err)

	require.Len(t, schedule.Tranches, 4)
	assert.Equal(t, 1000.0, schedule.TotalTokens)
	assert.Equal(t, testListing, schedule.ListingInstant)

	// Tranche 0: 40% at listing
	assert.Equal(t, testListing, schedule.Tranches[0].UnlockInstant)
	assert.Equal(t, 400.0, schedule.TrancheAmount(0))

	// Tranche 3: 20% at listing + 90 days = 2026-10-30
	assert.Equal(t, time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC), schedule.Tranches[3].UnlockInstant)
	assert.Equal(t, 200.0, schedule.TrancheAmount(3))

	// All claimed amounts start at zero
	for i, tr := range schedule.Tranches {
		assert.Zerof(t, tr.ClaimedAmount, "tranche %d", i)
	}
}

func TestBuild_UnlockSpacing(t *testing.T) {
	schedule, err := Build(500, testConfig())
	require.NoError(t, err)

	for i := 1; i < len(schedule.Tranches); i++ {
		gap := schedule.Tranches[i].UnlockInstant.Sub(schedule.Tranches[i-1].UnlockInstant)
		assert.Equal(t, 30*24*time.Hour, gap, "gap before tranche %d", i)
	}
}

func TestBuild_ZeroTokens(t *testing.T) {
	schedule, err := Build(0, testConfig())
	require.NoError(t, err)
	assert.Zero(t, schedule.TrancheAmount(0))
}

func TestBuild_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		tokens float64
		mutate func(*domain.VestingConfig)
	}{
		{"negative tokens", -1, func(*domain.VestingConfig) {}},
		{"empty percentages", 100, func(c *domain.VestingConfig) {
			c.TranchePercentages = nil
		}},
		{"sum below 100", 100, func(c *domain.VestingConfig) {
			c.TranchePercentages = []float64{40, 20, 20}
		}},
		{"sum above 100", 100, func(c *domain.VestingConfig) {
			c.TranchePercentages = []float64{40, 20, 20, 20, 20}
		}},
		{"negative percentage", 100, func(c *domain.VestingConfig) {
			c.TranchePercentages = []float64{140, -40}
		}},
		{"zero spacing", 100, func(c *domain.VestingConfig) {
			c.TrancheSpacingDays = 0
		}},
		{"zero listing instant", 100, func(c *domain.VestingConfig) {
			c.ListingInstant = time.Time{}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := Build(tt.tokens, cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestBuild_PercentSumEpsilon(t *testing.T) {
	cfg := testConfig()
	// 3x33.33 + 33.34 sums to 100 only within floating tolerance
	cfg.TranchePercentages = []float64{33.33, 33.33, 33.34}

	_, err := Build(100, cfg)
	require.NoError(t, err)
}

func TestBuild_SingleTranche(t *testing.T) {
	cfg := testConfig()
	cfg.TranchePercentages = []float64{100}

	schedule, err := Build(250, cfg)
	require.NoError(t, err)
	require.Len(t, schedule.Tranches, 1)
	assert.Equal(t, 250.0, schedule.TrancheAmount(0))
	assert.Equal(t, testListing, schedule.Tranches[0].UnlockInstant)
}
