package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamSourcePrefersFreshTick(t *testing.T) {
	updates := make(chan PriceUpdate, 1)
	source := NewStreamSource(updates, StaticSource{Price: 100}, time.Minute)
	defer source.Close()

	updates <- PriceUpdate{Symbol: "SOL", Price: 151.5, AsOf: time.Now()}

	require.Eventually(t, func() bool {
		return source.NativePrice(context.Background()).Price == 151.5
	}, time.Second, 10*time.Millisecond)

	quote := source.NativePrice(context.Background())
	assert.False(t, quote.Degraded)
}

func TestStreamSourceFallsBackWithoutTicks(t *testing.T) {
	updates := make(chan PriceUpdate)
	source := NewStreamSource(updates, StaticSource{Price: 100}, time.Minute)
	defer source.Close()

	quote := source.NativePrice(context.Background())
	assert.Equal(t, 100.0, quote.Price)
}

func TestStreamSourceStaleTickDefersToFallback(t *testing.T) {
	updates := make(chan PriceUpdate, 1)
	source := NewStreamSource(updates, StaticSource{Price: 100}, time.Minute)
	defer source.Close()

	updates <- PriceUpdate{Symbol: "SOL", Price: 151.5, AsOf: time.Now().Add(-2 * time.Minute)}

	require.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.last.Price == 151.5
	}, time.Second, 10*time.Millisecond)

	quote := source.NativePrice(context.Background())
	assert.Equal(t, 100.0, quote.Price, "stale tick is ignored")
}
