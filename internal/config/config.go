// Package config holds the financial parameters of the presale and the
// service's connection settings. Values come from environment variables
// (optionally seeded from a .env file); flags in the cmds override
// them. Validation is fail-fast: a service with a bad financial
// parameter must not start.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"presale-vesting-service/internal/domain"
	"presale-vesting-service/internal/vesting"
)

// Defaults for display and purchase bounds.
const (
	DefaultTokenDecimals   = 9
	DefaultMinNativeAmount = 0.1
	DefaultMaxNativeAmount = 100.0
	DefaultMinStableAmount = 10.0
	DefaultMaxStableAmount = 10000.0
	DefaultFallbackPrice   = 150.0
	DefaultListenAddr      = ":8080"
	DefaultMetricsAddr     = ":9090"
	DefaultLedgerMode      = "simulated"
)

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

// Config is the full service configuration.
type Config struct {
	// Financial parameters
	TokenDecimals   int
	MinNativeAmount float64
	MaxNativeAmount float64
	MinStableAmount float64
	MaxStableAmount float64
	FallbackPrice   float64

	// Vesting terms applied to new purchases
	ListingInstant     time.Time
	TranchePercentages []float64
	TrancheSpacingDays int

	// Ledger mode: "simulated" or "onchain"
	LedgerMode string

	// Endpoints
	RPCEndpoint    string
	WSEndpoint     string
	OracleEndpoint string
	ListenAddr     string
	MetricsAddr    string

	// Storage
	PostgresDSN   string
	ClickhouseDSN string
	UseMemory     bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	terms := vesting.DefaultConfig()
	return Config{
		TokenDecimals:      DefaultTokenDecimals,
		MinNativeAmount:    DefaultMinNativeAmount,
		MaxNativeAmount:    DefaultMaxNativeAmount,
		MinStableAmount:    DefaultMinStableAmount,
		MaxStableAmount:    DefaultMaxStableAmount,
		FallbackPrice:      DefaultFallbackPrice,
		ListingInstant:     terms.ListingInstant,
		TranchePercentages: terms.TranchePercentages,
		TrancheSpacingDays: terms.TrancheSpacingDays,
		LedgerMode:         DefaultLedgerMode,
		ListenAddr:         DefaultListenAddr,
		MetricsAddr:        DefaultMetricsAddr,
		UseMemory:          true,
	}
}

// VestingConfig returns the configured vesting terms.
func (c Config) VestingConfig() domain.VestingConfig {
	return domain.VestingConfig{
		ListingInstant:     c.ListingInstant,
		TranchePercentages: c.TranchePercentages,
		TrancheSpacingDays: c.TrancheSpacingDays,
	}
}

// FromEnv builds a Config from environment variables on top of the
// defaults. Unset variables keep their default; malformed numeric
// values surface as a ConfigError instead of being silently ignored.
func FromEnv() (Config, error) {
	cfg := Default()

	var err error
	if cfg.TokenDecimals, err = envInt("PRESALE_TOKEN_DECIMALS", cfg.TokenDecimals); err != nil {
		return cfg, err
	}
	if cfg.MinNativeAmount, err = envFloat("PRESALE_MIN_NATIVE", cfg.MinNativeAmount); err != nil {
		return cfg, err
	}
	if cfg.MaxNativeAmount, err = envFloat("PRESALE_MAX_NATIVE", cfg.MaxNativeAmount); err != nil {
		return cfg, err
	}
	if cfg.MinStableAmount, err = envFloat("PRESALE_MIN_STABLE", cfg.MinStableAmount); err != nil {
		return cfg, err
	}
	if cfg.MaxStableAmount, err = envFloat("PRESALE_MAX_STABLE", cfg.MaxStableAmount); err != nil {
		return cfg, err
	}
	if cfg.FallbackPrice, err = envFloat("PRESALE_FALLBACK_PRICE", cfg.FallbackPrice); err != nil {
		return cfg, err
	}
	if cfg.UseMemory, err = envBool("PRESALE_USE_MEMORY", cfg.UseMemory); err != nil {
		return cfg, err
	}
	if cfg.ListingInstant, err = envTime("PRESALE_LISTING_INSTANT", cfg.ListingInstant); err != nil {
		return cfg, err
	}
	if cfg.TranchePercentages, err = envFloatList("PRESALE_TRANCHE_PERCENTAGES", cfg.TranchePercentages); err != nil {
		return cfg, err
	}
	if cfg.TrancheSpacingDays, err = envInt("PRESALE_TRANCHE_SPACING_DAYS", cfg.TrancheSpacingDays); err != nil {
		return cfg, err
	}

	cfg.LedgerMode = envString("PRESALE_LEDGER_MODE", cfg.LedgerMode)
	cfg.RPCEndpoint = envString("PRESALE_RPC_ENDPOINT", cfg.RPCEndpoint)
	cfg.WSEndpoint = envString("PRESALE_WS_ENDPOINT", cfg.WSEndpoint)
	cfg.OracleEndpoint = envString("PRESALE_ORACLE_ENDPOINT", cfg.OracleEndpoint)
	cfg.ListenAddr = envString("PRESALE_LISTEN_ADDR", cfg.ListenAddr)
	cfg.MetricsAddr = envString("PRESALE_METRICS_ADDR", cfg.MetricsAddr)
	cfg.PostgresDSN = envString("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.ClickhouseDSN = envString("CLICKHOUSE_DSN", cfg.ClickhouseDSN)

	return cfg, nil
}

// Validate checks every financial parameter and the ledger mode.
func (c Config) Validate() error {
	if c.TokenDecimals < 0 || c.TokenDecimals > 18 {
		return &ConfigError{Field: "token decimals", Reason: "must be between 0 and 18"}
	}
	if c.MinNativeAmount <= 0 {
		return &ConfigError{Field: "min native amount", Reason: "must be positive"}
	}
	if c.MaxNativeAmount <= c.MinNativeAmount {
		return &ConfigError{Field: "max native amount", Reason: "must exceed the minimum"}
	}
	if c.MinStableAmount <= 0 {
		return &ConfigError{Field: "min stable amount", Reason: "must be positive"}
	}
	if c.MaxStableAmount <= c.MinStableAmount {
		return &ConfigError{Field: "max stable amount", Reason: "must exceed the minimum"}
	}
	if c.FallbackPrice <= 0 {
		return &ConfigError{Field: "fallback price", Reason: "must be positive"}
	}
	if err := vesting.ValidateConfig(c.VestingConfig()); err != nil {
		return &ConfigError{Field: "vesting terms", Reason: err.Error()}
	}
	if c.LedgerMode != "simulated" && c.LedgerMode != "onchain" {
		return &ConfigError{Field: "ledger mode", Reason: `must be "simulated" or "onchain"`}
	}
	if c.LedgerMode == "onchain" && c.RPCEndpoint == "" {
		return &ConfigError{Field: "rpc endpoint", Reason: "required in onchain mode"}
	}
	if !c.UseMemory && c.PostgresDSN == "" {
		return &ConfigError{Field: "postgres dsn", Reason: "required unless memory storage is enabled"}
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ConfigError{Field: key, Reason: "must be an integer"}
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ConfigError{Field: key, Reason: "must be a number"}
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &ConfigError{Field: key, Reason: "must be a boolean"}
	}
	return b, nil
}

func envTime(key string, def time.Time) (time.Time, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, &ConfigError{Field: key, Reason: "must be an RFC 3339 timestamp"}
	}
	return ts, nil
}

func envFloatList(key string, def []float64) ([]float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parts := strings.Split(v, ",")
	list := make([]float64, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, &ConfigError{Field: key, Reason: "must be a comma-separated list of numbers"}
		}
		list[i] = f
	}
	return list, nil
}
