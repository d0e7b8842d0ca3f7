package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSourceFreshQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price": 152.34}`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL)
	quote := source.NativePrice(context.Background())

	assert.Equal(t, 152.34, quote.Price)
	assert.False(t, quote.Degraded)
	assert.False(t, quote.AsOf.IsZero())
}

func TestHTTPSourceFallbackWhenUnreachable(t *testing.T) {
	source := NewHTTPSource("http://127.0.0.1:1", WithFallbackPrice(99.5))
	quote := source.NativePrice(context.Background())

	assert.Equal(t, 99.5, quote.Price)
	assert.True(t, quote.Degraded)
}

func TestHTTPSourceServesCachedQuoteDegraded(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"price": 148.0}`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, WithFallbackPrice(1.0))

	quote := source.NativePrice(context.Background())
	require.False(t, quote.Degraded)
	require.Equal(t, 148.0, quote.Price)

	fail.Store(true)

	quote = source.NativePrice(context.Background())
	assert.True(t, quote.Degraded)
	assert.Equal(t, 148.0, quote.Price, "cached quote wins over fallback while fresh enough")
}

func TestHTTPSourceExpiredCacheFallsBack(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"price": 148.0}`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, WithFallbackPrice(42.0), WithMaxQuoteAge(time.Minute))

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	source.now = func() time.Time { return now }

	require.False(t, source.NativePrice(context.Background()).Degraded)

	fail.Store(true)
	now = now.Add(2 * time.Minute)

	quote := source.NativePrice(context.Background())
	assert.True(t, quote.Degraded)
	assert.Equal(t, 42.0, quote.Price)
}

func TestHTTPSourceRejectsNonPositivePrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price": 0}`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, WithFallbackPrice(10.0))
	quote := source.NativePrice(context.Background())

	assert.True(t, quote.Degraded)
	assert.Equal(t, 10.0, quote.Price)
}

func TestStaticSource(t *testing.T) {
	quote := StaticSource{Price: 150}.NativePrice(context.Background())
	assert.Equal(t, 150.0, quote.Price)
	assert.False(t, quote.Degraded)
}
