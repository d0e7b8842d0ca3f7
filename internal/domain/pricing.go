package domain

import (
	"strconv"
	"time"
)

// PricingPeriod is one calendar window with a fixed token price.
// Periods are sorted ascending by Start, non-overlapping; gaps between
// periods are legal and mean "presale inactive".
type PricingPeriod struct {
	Month    string    `json:"month"`
	Year     int       `json:"year"`
	PriceUSD float64   `json:"price_usd"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Contains reports whether t falls inside the period (inclusive bounds).
func (p PricingPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Label returns the display label, e.g. "August 2026".
func (p PricingPeriod) Label() string {
	return p.Month + " " + strconv.Itoa(p.Year)
}
