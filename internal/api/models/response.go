package models

import (
	"time"

	"tga-liquidity/internal/analysis"
)

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AlignResponse is the weekly joint table plus the series behind it.
type AlignResponse struct {
	ID           string              `json:"id"`
	Status       string              `json:"status"`
	Empty        bool                `json:"empty"`
	Symbol       string              `json:"symbol"`
	Anchor       string              `json:"anchor"`
	PriceWindow  TimeWindow          `json:"price_window"`
	Rows         []JointRow          `json:"rows"`
	WeeklyPrices []PricePoint        `json:"weekly_prices"`
	Stats        analysis.JointStats `json:"stats"`
}

// JointRow is one aligned week. DeltaBalance keeps the decimal text of the
// uploaded balances.
type JointRow struct {
	Date         string  `json:"date"`
	DeltaBalance string  `json:"delta_balance"`
	PeriodReturn float64 `json:"period_return"`
}

type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// BacktestResponse represents the response from a backtest run
type BacktestResponse struct {
	ID            string           `json:"id"`
	Status        string           `json:"status"`
	Empty         bool             `json:"empty"`
	Config        FilterConfig     `json:"config"`
	Summary       *BacktestSummary `json:"summary,omitempty"`
	StrategyCurve []CurvePoint     `json:"strategy_curve"`
	MarketCurve   []CurvePoint     `json:"market_curve"`
	Ledger        []LedgerRow      `json:"ledger,omitempty"`
}

type FilterConfig struct {
	ScoreThreshold float64 `json:"score_threshold"`
	RequireFlag    bool    `json:"require_flag"`
}

// BacktestSummary contains aggregated backtest results
type BacktestSummary struct {
	Rows                int        `json:"rows"`
	SignalCount         int        `json:"signal_count"`
	BacktestWindow      TimeWindow `json:"backtest_window"`
	TotalStrategyReturn float64    `json:"total_strategy_return"`
	TotalMarketReturn   float64    `json:"total_market_return"`
	WinRate             float64    `json:"win_rate"`
}

type CurvePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// LedgerRow represents one period in the backtest ledger
type LedgerRow struct {
	Index             int     `json:"index"`
	Date              string  `json:"date"`
	Score             float64 `json:"score"`
	Flag              string  `json:"flag"`
	MarketReturnPct   float64 `json:"market_return_pct"`
	Signal            int     `json:"signal"`
	StrategyReturnPct float64 `json:"strategy_return_pct"`
	StrategyCumReturn float64 `json:"strategy_cum_return"`
	MarketCumReturn   float64 `json:"market_cum_return"`
}

// CompareBacktestResponse represents the response from a comparison
type CompareBacktestResponse struct {
	ID         string             `json:"id"`
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Rank    int              `json:"rank"`
	Name    string           `json:"name"`
	Config  FilterConfig     `json:"config"`
	Empty   bool             `json:"empty"`
	Summary *BacktestSummary `json:"summary,omitempty"`
}

// StrategyInfo describes an available strategy
type StrategyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a strategy parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Default     interface{} `json:"default"`
}

// SampleInfo names a downloadable sample upload.
type SampleInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
