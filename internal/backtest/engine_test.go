package backtest

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"tga-liquidity/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioB() []model.SignalRow {
	base := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	return []model.SignalRow{
		{Date: base, Score: 50, Flag: model.FlagNo, MarketReturnPct: 1},
		{Date: base.AddDate(0, 0, 7), Score: 70, Flag: model.FlagYes, MarketReturnPct: -1},
		{Date: base.AddDate(0, 0, 14), Score: 90, Flag: model.FlagYes, MarketReturnPct: 2},
	}
}

func TestBacktest_ScenarioB(t *testing.T) {
	res, err := Backtest(scenarioB(), Config{ScoreThreshold: 60, RequireFlag: true})
	require.NoError(t, err)
	require.Len(t, res.Ledger, 3)

	// Score 70 clears 60 and its flag is yes, so the middle row is long.
	signals := []model.Signal{res.Ledger[0].Signal, res.Ledger[1].Signal, res.Ledger[2].Signal}
	assert.Equal(t, []model.Signal{model.SignalFlat, model.SignalLong, model.SignalLong}, signals)

	assert.InDeltaSlice(t, []float64{1, 0.99, 1.0098}, res.StrategyCurve(), 1e-12)
	assert.InDelta(t, 1.0/3.0, res.Summary.WinRate, 1e-12)
}

func TestBacktest_ScenarioBCurves(t *testing.T) {
	rows := scenarioB()
	// With the middle flag off, only the last row qualifies: signals [0,0,1].
	rows[1].Flag = model.FlagNo

	res, err := Backtest(rows, Config{ScoreThreshold: 60, RequireFlag: true})
	require.NoError(t, err)

	var signals []model.Signal
	var stratRets []float64
	for _, r := range res.Ledger {
		signals = append(signals, r.Signal)
		stratRets = append(stratRets, r.StrategyReturnPct)
	}
	assert.Equal(t, []model.Signal{0, 0, 1}, signals)
	assert.Equal(t, []float64{0, 0, 2}, stratRets)

	assert.InDeltaSlice(t, []float64{1, 1, 1.02}, res.StrategyCurve(), 1e-12)
	assert.InDeltaSlice(t, []float64{1.01, 0.9999, 1.019898}, res.MarketCurve(), 1e-12)

	require.NotNil(t, res.Summary)
	assert.InDelta(t, 0.02, res.Summary.TotalStrategyReturn, 1e-12)
	assert.InDelta(t, 0.019898, res.Summary.TotalMarketReturn, 1e-12)
	assert.InDelta(t, 1.0/3.0, res.Summary.WinRate, 1e-12)
	assert.Equal(t, 1, res.Summary.SignalCount)
	assert.Equal(t, 3, res.Summary.Rows)
	assert.Equal(t, rows[0].Date, res.Summary.Start)
	assert.Equal(t, rows[2].Date, res.Summary.End)
}

// Scenario C: empty input is an empty result, not a panic on the last row.
func TestBacktest_ScenarioCEmpty(t *testing.T) {
	var res *Result
	var err error
	assert.NotPanics(t, func() {
		res, err = Backtest(nil, DefaultConfig())
	})
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Nil(t, res.Summary)
	assert.Empty(t, res.StrategyCurve())

	_, err = Summarize(res.Ledger)
	assert.ErrorIs(t, err, model.ErrEmptyResultSet)
}

func TestBacktest_CompoundsMultiplicatively(t *testing.T) {
	rows := []model.SignalRow{
		{Score: 100, Flag: model.FlagYes, MarketReturnPct: 10},
		{Score: 100, Flag: model.FlagYes, MarketReturnPct: 10},
	}
	res, err := Backtest(rows, Config{ScoreThreshold: 0})
	require.NoError(t, err)

	first := res.Ledger[0]
	assert.InDelta(t, 1+first.StrategyReturnPct/100, first.StrategyCumReturn, 1e-12)
	assert.InDelta(t, 1.21, res.Ledger[1].StrategyCumReturn, 1e-12, "1.1 * 1.1, not 1 + 0.2")
}

func TestBacktest_WinRateZeroWhenThresholdAboveAllScores(t *testing.T) {
	res, err := Backtest(scenarioB(), Config{ScoreThreshold: 1000})
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Summary.WinRate)
	assert.Equal(t, 0.0, res.Summary.TotalStrategyReturn)
	for _, r := range res.Ledger {
		assert.Equal(t, model.SignalFlat, r.Signal)
		assert.Equal(t, 1.0, r.StrategyCumReturn)
	}
}

func TestBacktest_WinRateDenominatorCountsFlatRows(t *testing.T) {
	rows := []model.SignalRow{
		{Score: 90, MarketReturnPct: 1},
		{Score: 10, MarketReturnPct: 5}, // flat, still counted
		{Score: 10, MarketReturnPct: 5},
		{Score: 90, MarketReturnPct: -1},
	}
	res, err := Backtest(rows, Config{ScoreThreshold: 50})
	require.NoError(t, err)
	assert.Equal(t, 0.25, res.Summary.WinRate)
}

func TestBacktest_RowPreservingAndIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 40; n += 7 {
		rows := make([]model.SignalRow, n)
		for i := range rows {
			rows[i] = model.SignalRow{
				Score:           rng.Float64() * 100,
				Flag:            model.Flag(rng.Intn(2) == 1),
				MarketReturnPct: rng.NormFloat64() * 2,
			}
		}
		cfg := Config{ScoreThreshold: 40, RequireFlag: n%2 == 0}

		first, err := Backtest(rows, cfg)
		require.NoError(t, err)
		second, err := Backtest(rows, cfg)
		require.NoError(t, err)

		assert.Len(t, first.Ledger, n)
		assert.Equal(t, first, second)
		if n > 0 {
			assert.GreaterOrEqual(t, first.Summary.WinRate, 0.0)
			assert.LessOrEqual(t, first.Summary.WinRate, 1.0)
		}
	}
}

func TestBacktest_PreservesInputOrder(t *testing.T) {
	late := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []model.SignalRow{{Date: late}, {Date: early}}

	res, err := Backtest(rows, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, late, res.Ledger[0].Date)
	assert.Equal(t, early, res.Ledger[1].Date)
}

func TestEngineRun_NilStrategy(t *testing.T) {
	_, err := New().Run(scenarioB(), nil)
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 50.0, cfg.ScoreThreshold)
	assert.True(t, cfg.RequireFlag)
}

func TestEncodeLedgerCSV(t *testing.T) {
	rows := scenarioB()
	rows[1].Flag = model.FlagNo
	res, err := Backtest(rows, Config{ScoreThreshold: 60, RequireFlag: true})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeLedgerCSV(&buf, res.Ledger))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "index,date,score,flag,market_return_pct,signal,strategy_return_pct,strategy_cum_return,market_cum_return", lines[0])
	assert.Equal(t, "1,2024-01-12,70.000000,no,-1.000000,0,0.000000,1.000000,0.999900", lines[2])
	assert.Equal(t, "2,2024-01-19,90.000000,yes,2.000000,1,2.000000,1.020000,1.019898", lines[3])
}
