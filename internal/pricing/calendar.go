// Package pricing provides the presale pricing calendar and the pure
// conversion math between native currency, stablecoin and token amounts.
package pricing

import (
	"sort"
	"time"

	"presale-vesting-service/internal/domain"
)

// Calendar answers active/next period queries over a static, ordered
// list of pricing periods. Lookups never fail: an instant inside a gap
// between periods means the presale is inactive at that time.
type Calendar struct {
	periods []domain.PricingPeriod
}

// NewCalendar creates a calendar over the given periods, sorted
// ascending by start instant.
func NewCalendar(periods []domain.PricingPeriod) *Calendar {
	sorted := make([]domain.PricingPeriod, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return &Calendar{periods: sorted}
}

// Progress describes where "now" sits in the presale calendar.
// Index is 1-based; 0 means no period is active.
type Progress struct {
	Index   int     `json:"index"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// ActivePeriod returns the unique period containing now, or nil.
func (c *Calendar) ActivePeriod(now time.Time) *domain.PricingPeriod {
	for i := range c.periods {
		if c.periods[i].Contains(now) {
			period := c.periods[i]
			return &period
		}
	}
	return nil
}

// NextPeriod returns the earliest period starting after now, or nil.
func (c *Calendar) NextPeriod(now time.Time) *domain.PricingPeriod {
	for i := range c.periods {
		if c.periods[i].Start.After(now) {
			period := c.periods[i]
			return &period
		}
	}
	return nil
}

// IsActive reports whether any period contains now.
func (c *Calendar) IsActive(now time.Time) bool {
	return c.ActivePeriod(now) != nil
}

// Progress returns the 1-based position of the active period within the
// calendar, 0 when now falls outside every period.
func (c *Calendar) Progress(now time.Time) Progress {
	index := 0
	for i := range c.periods {
		if c.periods[i].Contains(now) {
			index = i + 1
			break
		}
	}
	total := len(c.periods)
	percent := 0.0
	if total > 0 {
		percent = float64(index) / float64(total) * 100
	}
	return Progress{Index: index, Total: total, Percent: percent}
}

// Periods returns a copy of the calendar's periods in ascending order.
func (c *Calendar) Periods() []domain.PricingPeriod {
	out := make([]domain.PricingPeriod, len(c.periods))
	copy(out, c.periods)
	return out
}
