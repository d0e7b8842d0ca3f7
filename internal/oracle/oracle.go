// Package oracle supplies the USD price of the native settlement token.
// Conversion math needs a price even when the upstream feed is down, so
// sources degrade to cached or configured fallback values instead of
// returning errors.
package oracle

import (
	"context"

	"presale-vesting-service/internal/domain"
)

// Source resolves the current native token price in USD. It never
// fails: when the feed is unreachable the returned quote carries
// Degraded=true and a cached or fallback price.
type Source interface {
	NativePrice(ctx context.Context) domain.PriceQuote
}
