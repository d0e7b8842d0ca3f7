package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokensFromNative(t *testing.T) {
	// 2 native at $150 buys 5000 tokens at $0.06
	assert.Equal(t, 5000.0, TokensFromNative(2, 150, 0.06))
}

func TestTokensFromStable(t *testing.T) {
	assert.Equal(t, 1000.0, TokensFromStable(60, 0.06))
}

func TestConversion_ZeroGuards(t *testing.T) {
	assert.Zero(t, TokensFromNative(0, 150, 0.06))
	assert.Zero(t, TokensFromNative(2, 0, 0.06))
	assert.Zero(t, TokensFromNative(2, 150, 0))
	assert.Zero(t, TokensFromNative(-1, 150, 0.06))

	assert.Zero(t, TokensFromStable(0, 0.06))
	assert.Zero(t, TokensFromStable(-5, 0.06))
	assert.Zero(t, TokensFromStable(10, 0))

	assert.Zero(t, NativeRequiredForTokens(0, 150, 0.06))
	assert.Zero(t, NativeRequiredForTokens(100, -150, 0.06))
	assert.Zero(t, StableRequiredForTokens(100, 0))
}

func TestConversion_RoundTrip(t *testing.T) {
	prices := []struct{ native, token float64 }{
		{150, 0.06},
		{97.35, 0.0598},
		{210.4, 0.1137},
	}
	amounts := []float64{0.1, 1, 2.5, 100}

	for _, p := range prices {
		for _, n := range amounts {
			tokens := TokensFromNative(n, p.native, p.token)
			back := NativeRequiredForTokens(tokens, p.native, p.token)
			assert.InDelta(t, n, back, 1e-9)

			stable := StableRequiredForTokens(TokensFromStable(n, p.token), p.token)
			assert.InDelta(t, n, stable, 1e-9)
		}
	}
}
