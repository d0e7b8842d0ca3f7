package oracle

import (
	"context"
	"sync"
	"time"

	"presale-vesting-service/internal/domain"
)

// StreamSource serves quotes from the latest WebSocket tick. A fallback
// source answers, degraded or not, until the first tick arrives or when
// the latest tick has gone stale.
type StreamSource struct {
	fallback Source
	maxAge   time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last PriceUpdate

	done chan struct{}
	wg   sync.WaitGroup
}

// NewStreamSource starts consuming ticks from the channel, normally a
// StreamClient's Updates(). The caller keeps ownership of the stream
// client and closes it separately.
func NewStreamSource(updates <-chan PriceUpdate, fallback Source, maxAge time.Duration) *StreamSource {
	if maxAge <= 0 {
		maxAge = DefaultMaxQuoteAge
	}
	s := &StreamSource{
		fallback: fallback,
		maxAge:   maxAge,
		now:      time.Now,
		done:     make(chan struct{}),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.done:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				s.mu.Lock()
				s.last = update
				s.mu.Unlock()
			}
		}
	}()

	return s
}

// Compile-time interface check.
var _ Source = (*StreamSource)(nil)

// NativePrice returns the latest streamed price, or defers to the
// fallback source when no fresh tick is available.
func (s *StreamSource) NativePrice(ctx context.Context) domain.PriceQuote {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()

	if last.Price > 0 && s.now().Sub(last.AsOf) <= s.maxAge {
		return domain.PriceQuote{Price: last.Price, AsOf: last.AsOf, Degraded: false}
	}
	return s.fallback.NativePrice(ctx)
}

// Close stops consuming ticks.
func (s *StreamSource) Close() {
	close(s.done)
	s.wg.Wait()
}
