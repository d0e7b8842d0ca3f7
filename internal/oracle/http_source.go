package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"presale-vesting-service/internal/domain"
	"presale-vesting-service/internal/observability"
)

// Default configuration values.
const (
	DefaultHTTPTimeout   = 5 * time.Second
	DefaultFallbackPrice = 150.0
	DefaultMaxQuoteAge   = 5 * time.Minute
)

// HTTPSource polls a JSON price endpoint. A fresh fetch wins; a stale
// cached quote is served degraded when the fetch fails; the configured
// fallback price is the floor when no quote was ever fetched.
type HTTPSource struct {
	endpoint string
	client   *http.Client
	fallback float64
	maxAge   time.Duration
	logger   *log.Logger
	now      func() time.Time

	mu   sync.Mutex
	last domain.PriceQuote
}

// SourceOption configures HTTPSource.
type SourceOption func(*HTTPSource)

// WithFallbackPrice sets the price served when no quote is available.
func WithFallbackPrice(p float64) SourceOption {
	return func(s *HTTPSource) {
		s.fallback = p
	}
}

// WithMaxQuoteAge sets how long a cached quote may be served degraded.
func WithMaxQuoteAge(d time.Duration) SourceOption {
	return func(s *HTTPSource) {
		s.maxAge = d
	}
}

// WithSourceHTTPClient sets custom http.Client.
func WithSourceHTTPClient(client *http.Client) SourceOption {
	return func(s *HTTPSource) {
		s.client = client
	}
}

// WithSourceLogger sets the logger.
func WithSourceLogger(logger *log.Logger) SourceOption {
	return func(s *HTTPSource) {
		s.logger = logger
	}
}

// NewHTTPSource creates an HTTP price source.
func NewHTTPSource(endpoint string, opts ...SourceOption) *HTTPSource {
	s := &HTTPSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultHTTPTimeout},
		fallback: DefaultFallbackPrice,
		maxAge:   DefaultMaxQuoteAge,
		logger:   log.New(io.Discard, "", 0),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compile-time interface check.
var _ Source = (*HTTPSource)(nil)

// NativePrice returns the current native token USD price. The quote is
// degraded when it did not come from a live fetch.
func (s *HTTPSource) NativePrice(ctx context.Context) domain.PriceQuote {
	price, err := s.fetch(ctx)
	if err == nil {
		quote := domain.PriceQuote{Price: price, AsOf: s.now(), Degraded: false}
		s.mu.Lock()
		s.last = quote
		s.mu.Unlock()
		return quote
	}

	s.logger.Printf("price fetch failed, serving degraded quote: %v", err)
	observability.RecordOracleDegraded()

	s.mu.Lock()
	last := s.last
	s.mu.Unlock()

	if !last.AsOf.IsZero() && s.now().Sub(last.AsOf) <= s.maxAge {
		last.Degraded = true
		return last
	}
	return domain.PriceQuote{Price: s.fallback, AsOf: s.now(), Degraded: true}
}

func (s *HTTPSource) fetch(ctx context.Context) (float64, error) {
	start := time.Now()
	defer func() {
		observability.RecordOracleLatency(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if body.Price <= 0 {
		return 0, fmt.Errorf("non-positive price %f", body.Price)
	}
	return body.Price, nil
}

// StaticSource always returns a fixed, non-degraded price. Used in
// simulation mode and tests.
type StaticSource struct {
	Price float64
}

// NativePrice returns the fixed price.
func (s StaticSource) NativePrice(_ context.Context) domain.PriceQuote {
	return domain.PriceQuote{Price: s.Price, AsOf: time.Now(), Degraded: false}
}

// Compile-time interface check.
var _ Source = StaticSource{}
