package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Uploads arrive as multipart forms; the table itself is the "file" part.

// AlignRequest carries the optional form fields of POST /api/v1/align.
type AlignRequest struct {
	Symbol string `form:"symbol"`
	Anchor string `form:"anchor"` // weekday name, default thursday
}

// BacktestRequest carries the optional form fields of POST /api/v1/backtest.
// Unset fields fall back to the server defaults.
type BacktestRequest struct {
	ScoreThreshold *float64 `form:"score_threshold"`
	RequireFlag    *bool    `form:"require_flag"`
	IncludeLedger  bool     `form:"include_ledger"`
}

// CompareBacktestRequest lists variations as "name:threshold:require_flag",
// one per repeated "variation" field, e.g. "strict:70:true".
type CompareBacktestRequest struct {
	Variations []string `form:"variation"`
}

// BacktestVariation defines a variation to test
type BacktestVariation struct {
	Name           string
	ScoreThreshold float64
	RequireFlag    bool
}

func ParseVariation(raw string) (BacktestVariation, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 3 {
		return BacktestVariation{}, fmt.Errorf("variation %q: want name:threshold:require_flag", raw)
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return BacktestVariation{}, fmt.Errorf("variation %q: name is empty", raw)
	}
	threshold, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return BacktestVariation{}, fmt.Errorf("variation %q: threshold: %w", raw, err)
	}
	requireFlag, err := strconv.ParseBool(strings.TrimSpace(parts[2]))
	if err != nil {
		return BacktestVariation{}, fmt.Errorf("variation %q: require_flag: %w", raw, err)
	}
	return BacktestVariation{Name: name, ScoreThreshold: threshold, RequireFlag: requireFlag}, nil
}
