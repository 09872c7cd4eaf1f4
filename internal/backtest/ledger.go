package backtest

import (
	"fmt"
	"time"

	"tga-liquidity/internal/model"
)

// LedgerRow is one row of per-period output.
// This is the primary artifact for "what happened" in a backtest.
type LedgerRow struct {
	Index int
	Date  time.Time

	Score           float64
	Flag            model.Flag
	MarketReturnPct float64

	Signal            model.Signal
	StrategyReturnPct float64

	StrategyCumReturn float64
	MarketCumReturn   float64
}

// Summary holds the scalar metrics of a non-empty ledger.
type Summary struct {
	Rows        int
	SignalCount int

	Start time.Time
	End   time.Time

	TotalStrategyReturn float64
	TotalMarketReturn   float64
	// WinRate counts rows with a positive strategy return over ALL rows,
	// including rows where the filter stayed flat.
	WinRate float64
}

type Result struct {
	Ledger  []LedgerRow
	Summary *Summary // nil when the ledger is empty
}

// Empty reports the EmptyResultSet state: no rows, no summary.
func (r *Result) Empty() bool { return r == nil || len(r.Ledger) == 0 }

// StrategyCurve and MarketCurve return the cumulative-return sequences for charting.
func (r *Result) StrategyCurve() []float64 {
	out := make([]float64, len(r.Ledger))
	for i, row := range r.Ledger {
		out[i] = row.StrategyCumReturn
	}
	return out
}

func (r *Result) MarketCurve() []float64 {
	out := make([]float64, len(r.Ledger))
	for i, row := range r.Ledger {
		out[i] = row.MarketCumReturn
	}
	return out
}

// Summarize computes the scalar metrics. It returns model.ErrEmptyResultSet
// instead of reading a last row that does not exist.
func Summarize(ledger []LedgerRow) (Summary, error) {
	if len(ledger) == 0 {
		return Summary{}, fmt.Errorf("summarize ledger: %w", model.ErrEmptyResultSet)
	}
	last := ledger[len(ledger)-1]

	wins, signals := 0, 0
	for _, row := range ledger {
		if row.StrategyReturnPct > 0 {
			wins++
		}
		if row.Signal == model.SignalLong {
			signals++
		}
	}

	return Summary{
		Rows:                len(ledger),
		SignalCount:         signals,
		Start:               ledger[0].Date,
		End:                 last.Date,
		TotalStrategyReturn: last.StrategyCumReturn - 1,
		TotalMarketReturn:   last.MarketCumReturn - 1,
		WinRate:             float64(wins) / float64(len(ledger)),
	}, nil
}
