package analysis

import (
	"math"
	"sort"
	"time"

	"tga-liquidity/internal/model"
)

// ColumnStats summarizes one numeric column.
type ColumnStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	P05  float64 `json:"p05"`
	P95  float64 `json:"p95"`

	SpreadP95P05 float64 `json:"spread_p95_p05"`
}

// JointStats describes the weekly joint table: balance change against index
// return, for the scatter and regression view.
type JointStats struct {
	Count int       `json:"count"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	DeltaBalance ColumnStats `json:"delta_balance"`
	ReturnPct    ColumnStats `json:"return_pct"`

	// Correlation is Pearson's r. Slope and Intercept fit
	// return_pct = Intercept + Slope*delta_balance by least squares.
	// Fitted is false when fewer than two rows exist or either column is constant.
	Correlation float64 `json:"correlation"`
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	Fitted      bool    `json:"fitted"`
}

// ComputeJointStats works on the rows as given; an empty table yields zero stats.
func ComputeJointStats(rows []model.WeeklyRow) JointStats {
	s := JointStats{}
	if len(rows) == 0 {
		return s
	}
	s.Count = len(rows)
	s.Start = rows[0].Date
	s.End = rows[len(rows)-1].Date

	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.DeltaBalance.InexactFloat64()
		ys[i] = r.PeriodReturn * 100
	}
	s.DeltaBalance = describe(xs)
	s.ReturnPct = describe(ys)

	if len(rows) < 2 {
		return s
	}
	mx, my := s.DeltaBalance.Mean, s.ReturnPct.Mean
	var sxx, syy, sxy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	if sxx == 0 || syy == 0 {
		return s
	}
	s.Correlation = sxy / math.Sqrt(sxx*syy)
	s.Slope = sxy / sxx
	s.Intercept = my - s.Slope*mx
	s.Fitted = true
	return s
}

func describe(vals []float64) ColumnStats {
	c := ColumnStats{}
	if len(vals) == 0 {
		return c
	}
	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	sorted := make([]float64, 0, len(vals))
	for _, v := range vals {
		sorted = append(sorted, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(sorted)
	c.Min = minv
	c.Max = maxv
	c.Mean = sum / float64(len(sorted))
	c.P05 = percentileSorted(sorted, 0.05)
	c.P95 = percentileSorted(sorted, 0.95)
	c.SpreadP95P05 = c.P95 - c.P05
	return c
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
