package handlers

import (
	"time"

	"tga-liquidity/internal/align"
	"tga-liquidity/internal/api/models"
	"tga-liquidity/internal/backtest"
	"tga-liquidity/internal/model"
)

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}

func buildJointRows(res *align.Result) []models.JointRow {
	out := make([]models.JointRow, 0, len(res.Joint))
	for _, r := range res.Joint {
		out = append(out, models.JointRow{
			Date:         fmtDate(r.Date),
			DeltaBalance: r.DeltaBalance.String(),
			PeriodReturn: r.PeriodReturn,
		})
	}
	return out
}

func buildPricePoints(points []model.PricePoint) []models.PricePoint {
	out := make([]models.PricePoint, 0, len(points))
	for _, p := range points {
		out = append(out, models.PricePoint{Date: fmtDate(p.Date), Price: p.Price})
	}
	return out
}

func buildSummary(s *backtest.Summary) *models.BacktestSummary {
	if s == nil {
		return nil
	}
	return &models.BacktestSummary{
		Rows:        s.Rows,
		SignalCount: s.SignalCount,
		BacktestWindow: models.TimeWindow{
			Start: s.Start,
			End:   s.End,
		},
		TotalStrategyReturn: s.TotalStrategyReturn,
		TotalMarketReturn:   s.TotalMarketReturn,
		WinRate:             s.WinRate,
	}
}

func buildCurves(res *backtest.Result) (strategy, market []models.CurvePoint) {
	strategy = make([]models.CurvePoint, 0, len(res.Ledger))
	market = make([]models.CurvePoint, 0, len(res.Ledger))
	for _, r := range res.Ledger {
		d := fmtDate(r.Date)
		strategy = append(strategy, models.CurvePoint{Date: d, Value: r.StrategyCumReturn})
		market = append(market, models.CurvePoint{Date: d, Value: r.MarketCumReturn})
	}
	return strategy, market
}

func buildLedger(ledger []backtest.LedgerRow) []models.LedgerRow {
	out := make([]models.LedgerRow, 0, len(ledger))
	for _, r := range ledger {
		out = append(out, models.LedgerRow{
			Index:             r.Index,
			Date:              fmtDate(r.Date),
			Score:             r.Score,
			Flag:              r.Flag.String(),
			MarketReturnPct:   r.MarketReturnPct,
			Signal:            int(r.Signal),
			StrategyReturnPct: r.StrategyReturnPct,
			StrategyCumReturn: r.StrategyCumReturn,
			MarketCumReturn:   r.MarketCumReturn,
		})
	}
	return out
}

func filterConfig(cfg backtest.Config) models.FilterConfig {
	return models.FilterConfig{ScoreThreshold: cfg.ScoreThreshold, RequireFlag: cfg.RequireFlag}
}
