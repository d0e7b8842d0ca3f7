package pricing

import (
	"time"

	"presale-vesting-service/internal/domain"
)

// DefaultPeriods is the monthly presale pricing schedule. November 2025
// is intentionally absent: the presale pauses that month and the
// calendar reports no active period.
func DefaultPeriods() []domain.PricingPeriod {
	return []domain.PricingPeriod{
		monthPeriod("July", 2025, time.July, 0.0598),
		monthPeriod("August", 2025, time.August, 0.0658),
		monthPeriod("September", 2025, time.September, 0.0718),
		monthPeriod("October", 2025, time.October, 0.0777),
		monthPeriod("December", 2025, time.December, 0.0837),
		monthPeriod("January", 2026, time.January, 0.0897),
		monthPeriod("February", 2026, time.February, 0.0957),
		monthPeriod("March", 2026, time.March, 0.1017),
		monthPeriod("April", 2026, time.April, 0.1047),
		monthPeriod("May", 2026, time.May, 0.1077),
		monthPeriod("June", 2026, time.June, 0.1107),
		monthPeriod("July", 2026, time.July, 0.1137),
	}
}

// DefaultCalendar returns a calendar over DefaultPeriods.
func DefaultCalendar() *Calendar {
	return NewCalendar(DefaultPeriods())
}

// monthPeriod builds a UTC calendar-month period ending at 23:59:59 on
// the month's last day.
func monthPeriod(label string, year int, month time.Month, priceUSD float64) domain.PricingPeriod {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return domain.PricingPeriod{
		Month:    label,
		Year:     year,
		PriceUSD: priceUSD,
		Start:    start,
		End:      end,
	}
}
