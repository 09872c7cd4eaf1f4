package backtest

import (
	"fmt"

	"tga-liquidity/internal/model"
	"tga-liquidity/internal/strategy"
)

// Config is the per-invocation filter configuration.
type Config struct {
	ScoreThreshold float64
	RequireFlag    bool
}

func DefaultConfig() Config {
	return Config{
		ScoreThreshold: strategy.DefaultScoreThreshold,
		RequireFlag:    true,
	}
}

// Strategy builds the threshold filter described by c.
func (c Config) Strategy() (strategy.Strategy, error) {
	return strategy.NewThresholdFilter(strategy.ThresholdParams{
		ScoreThreshold: c.ScoreThreshold,
		RequireFlag:    c.RequireFlag,
	})
}

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run executes a backtest over rows in the order given; the caller sorts by date.
// The ledger always has exactly len(rows) rows. Empty input yields an empty
// ledger and a nil summary, not an error.
func (e *Engine) Run(rows []model.SignalRow, strat strategy.Strategy) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("strategy is nil")
	}

	ledger := make([]LedgerRow, 0, len(rows))
	stratCum, marketCum := 1.0, 1.0

	for idx, r := range rows {
		sig := strat.Decide(strategy.Context{Index: idx, Row: r})
		stratRet := 0.0 // flat rows earn nothing; avoids -0 from 0 * negative
		if sig == model.SignalLong {
			stratRet = r.MarketReturnPct
		}

		stratCum *= 1 + stratRet/100
		marketCum *= 1 + r.MarketReturnPct/100

		ledger = append(ledger, LedgerRow{
			Index: idx,
			Date:  r.Date,

			Score:           r.Score,
			Flag:            r.Flag,
			MarketReturnPct: r.MarketReturnPct,

			Signal:            sig,
			StrategyReturnPct: stratRet,

			StrategyCumReturn: stratCum,
			MarketCumReturn:   marketCum,
		})
	}

	res := &Result{Ledger: ledger}
	if len(ledger) > 0 {
		sum, err := Summarize(ledger)
		if err != nil {
			return nil, err
		}
		res.Summary = &sum
	}
	return res, nil
}

// Backtest runs the threshold filter described by cfg over rows.
func Backtest(rows []model.SignalRow, cfg Config) (*Result, error) {
	strat, err := cfg.Strategy()
	if err != nil {
		return nil, err
	}
	return New().Run(rows, strat)
}
