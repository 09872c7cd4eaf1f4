package align

import (
	"math"
	"sort"
	"time"

	"tga-liquidity/internal/model"

	"github.com/shopspring/decimal"
)

// SortBalances returns a copy of the series in ascending date order.
// Dates are normalized to UTC calendar days.
func SortBalances(in []model.DailyBalance) []model.DailyBalance {
	out := make([]model.DailyBalance, len(in))
	for i, b := range in {
		out[i] = model.DailyBalance{Date: model.Day(b.Date), Balance: b.Balance}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Difference computes balance[i] - balance[i-1]. The first delta is undefined,
// never zero. The input must already be sorted.
func Difference(series []model.DailyBalance) []model.BalanceDelta {
	out := make([]model.BalanceDelta, len(series))
	for i, b := range series {
		out[i].Date = b.Date
		if i == 0 {
			continue
		}
		out[i].Delta = decimal.NewNullDecimal(b.Balance.Sub(series[i-1].Balance))
	}
	return out
}

// weekEnding returns the first date on or after d that falls on anchor.
func weekEnding(d time.Time, anchor time.Weekday) time.Time {
	d = model.Day(d)
	offset := (int(anchor) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

// ResampleWeekly buckets daily prices into weeks that end on anchor and keeps the
// last observation of each bucket, labelled with the anchor date. Weeks without an
// observation produce no row. Non-finite prices are treated as missing.
func ResampleWeekly(prices []model.PricePoint, anchor time.Weekday) []model.PricePoint {
	sorted := make([]model.PricePoint, 0, len(prices))
	for _, p := range prices {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			continue
		}
		sorted = append(sorted, model.PricePoint{Date: model.Day(p.Date), Price: p.Price})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	out := make([]model.PricePoint, 0, len(sorted)/5+1)
	for _, p := range sorted {
		label := weekEnding(p.Date, anchor)
		if n := len(out); n > 0 && out[n-1].Date.Equal(label) {
			out[n-1].Price = p.Price
			continue
		}
		out = append(out, model.PricePoint{Date: label, Price: p.Price})
	}
	return out
}

// PeriodReturns computes the fractional change between consecutive weekly values.
// The first row, and any row whose prior value is zero, is undefined.
func PeriodReturns(weekly []model.PricePoint) []model.PeriodReturn {
	out := make([]model.PeriodReturn, len(weekly))
	for i, p := range weekly {
		out[i].Date = p.Date
		if i == 0 {
			continue
		}
		prev := weekly[i-1].Price
		if prev == 0 {
			continue
		}
		out[i].Return = model.OptionalFloat{Value: p.Price/prev - 1, Valid: true}
	}
	return out
}

// JoinInnerDropNA aligns deltas and returns on their dates and keeps only the dates
// present in both with both values defined. Output is sorted ascending.
func JoinInnerDropNA(deltas []model.BalanceDelta, returns []model.PeriodReturn) []model.WeeklyRow {
	byDate := make(map[time.Time]float64, len(returns))
	for _, r := range returns {
		if !r.Return.Valid {
			continue
		}
		byDate[model.Day(r.Date)] = r.Return.Value
	}

	out := make([]model.WeeklyRow, 0, len(byDate))
	seen := make(map[time.Time]struct{}, len(deltas))
	for _, d := range deltas {
		if !d.Delta.Valid {
			continue
		}
		day := model.Day(d.Date)
		ret, ok := byDate[day]
		if !ok {
			continue
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, model.WeeklyRow{
			Date:         day,
			DeltaBalance: d.Delta.Decimal,
			PeriodReturn: ret,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
