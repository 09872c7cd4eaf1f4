package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical calendar-date format used on every output surface.
const DateLayout = "2006-01-02"

// Day truncates t to a UTC calendar date. All join keys go through Day so that
// "2024-01-04" parsed from different sources compares equal.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DailyBalance is one observation of the Treasury General Account balance.
// Balance is kept as a decimal so week-over-week deltas are exact.
type DailyBalance struct {
	Date    time.Time
	Balance decimal.Decimal
}

// PricePoint is one daily (or resampled weekly) observation of an index price.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// OptionalFloat is a float that may be undefined (the first row of a differenced
// or pct-changed series). Undefined is distinct from zero.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// BalanceDelta is one row of a differenced balance series.
type BalanceDelta struct {
	Date  time.Time
	Delta decimal.NullDecimal
}

// PeriodReturn is one row of a weekly return series (fractional, 0.01 = +1%).
type PeriodReturn struct {
	Date   time.Time
	Return OptionalFloat
}

// WeeklyRow is one row of the joint table. Both cells are always defined.
type WeeklyRow struct {
	Date         time.Time
	DeltaBalance decimal.Decimal
	PeriodReturn float64
}
