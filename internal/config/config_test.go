package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PRESALE_TOKEN_DECIMALS", "6")
	t.Setenv("PRESALE_MIN_NATIVE", "0.5")
	t.Setenv("PRESALE_LEDGER_MODE", "onchain")
	t.Setenv("PRESALE_RPC_ENDPOINT", "http://localhost:8899")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.TokenDecimals)
	assert.Equal(t, 0.5, cfg.MinNativeAmount)
	assert.Equal(t, "onchain", cfg.LedgerMode)
	assert.Equal(t, 100.0, cfg.MaxNativeAmount, "untouched values keep defaults")
	require.NoError(t, cfg.Validate())
}

func TestFromEnvVestingTerms(t *testing.T) {
	t.Setenv("PRESALE_LISTING_INSTANT", "2026-09-01T00:00:00Z")
	t.Setenv("PRESALE_TRANCHE_PERCENTAGES", "50, 25, 25")
	t.Setenv("PRESALE_TRANCHE_SPACING_DAYS", "15")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), cfg.ListingInstant)
	assert.Equal(t, []float64{50, 25, 25}, cfg.TranchePercentages)
	assert.Equal(t, 15, cfg.TrancheSpacingDays)
	require.NoError(t, cfg.Validate())

	terms := cfg.VestingConfig()
	assert.Equal(t, cfg.ListingInstant, terms.ListingInstant)
	assert.Equal(t, cfg.TranchePercentages, terms.TranchePercentages)
	assert.Equal(t, cfg.TrancheSpacingDays, terms.TrancheSpacingDays)
}

func TestFromEnvRejectsMalformedVestingTerms(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad listing instant", "PRESALE_LISTING_INSTANT", "next summer"},
		{"bad percentages", "PRESALE_TRANCHE_PERCENTAGES", "40,twenty,20,20"},
		{"bad spacing", "PRESALE_TRANCHE_SPACING_DAYS", "monthly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			require.Error(t, err)

			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.key, cerr.Field)
		})
	}
}

func TestFromEnvRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("PRESALE_MIN_NATIVE", "a lot")

	_, err := FromEnv()
	require.Error(t, err)

	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "PRESALE_MIN_NATIVE", cerr.Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative decimals", func(c *Config) { c.TokenDecimals = -1 }, "token decimals"},
		{"decimals too large", func(c *Config) { c.TokenDecimals = 19 }, "token decimals"},
		{"zero min native", func(c *Config) { c.MinNativeAmount = 0 }, "min native amount"},
		{"inverted native bounds", func(c *Config) { c.MaxNativeAmount = 0.05 }, "max native amount"},
		{"zero min stable", func(c *Config) { c.MinStableAmount = 0 }, "min stable amount"},
		{"inverted stable bounds", func(c *Config) { c.MaxStableAmount = 5 }, "max stable amount"},
		{"zero fallback price", func(c *Config) { c.FallbackPrice = 0 }, "fallback price"},
		{"percentages not summing to 100", func(c *Config) { c.TranchePercentages = []float64{50, 25} }, "vesting terms"},
		{"empty percentages", func(c *Config) { c.TranchePercentages = nil }, "vesting terms"},
		{"zero tranche spacing", func(c *Config) { c.TrancheSpacingDays = 0 }, "vesting terms"},
		{"zero listing instant", func(c *Config) { c.ListingInstant = time.Time{} }, "vesting terms"},
		{"unknown ledger mode", func(c *Config) { c.LedgerMode = "paper" }, "ledger mode"},
		{"onchain without rpc", func(c *Config) { c.LedgerMode = "onchain" }, "rpc endpoint"},
		{"persistent without dsn", func(c *Config) { c.UseMemory = false }, "postgres dsn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("PRESALE_ALREADY_SET", "keep")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nPRESALE_FROM_FILE=file-value\nPRESALE_ALREADY_SET=overridden\n\nmalformed line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("PRESALE_FROM_FILE", "")
	os.Unsetenv("PRESALE_FROM_FILE")

	loadEnvFrom(path)

	assert.Equal(t, "file-value", os.Getenv("PRESALE_FROM_FILE"))
	assert.Equal(t, "keep", os.Getenv("PRESALE_ALREADY_SET"), "existing env vars win")
}
