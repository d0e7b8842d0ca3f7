package domain

import "time"

// PriceQuote is the native-currency USD price as reported by the oracle.
// Degraded=true signals a fallback or stale price; downstream consumers
// keep functioning but label results accordingly.
type PriceQuote struct {
	Price    float64   `json:"price"`
	AsOf     time.Time `json:"as_of"`
	Degraded bool      `json:"degraded"`
}
