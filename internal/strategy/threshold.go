package strategy

import (
	"fmt"
	"math"

	"tga-liquidity/internal/model"
)

// DefaultScoreThreshold is the midpoint of the 0..100 sentiment scale.
const DefaultScoreThreshold = 50.0

// ThresholdParams configures the score/flag filter:
//   - ScoreThreshold is an inclusive lower bound (score >= threshold qualifies)
//   - RequireFlag additionally requires the row's flag to be affirmative
type ThresholdParams struct {
	ScoreThreshold float64
	RequireFlag    bool
}

func (p ThresholdParams) Validate() error {
	if math.IsNaN(p.ScoreThreshold) || math.IsInf(p.ScoreThreshold, 0) {
		return fmt.Errorf("score threshold must be a finite number")
	}
	return nil
}

// ThresholdFilter goes long on rows whose score clears the threshold and,
// when required, whose flag is affirmative. Otherwise it stays flat.
type ThresholdFilter struct {
	Params ThresholdParams
}

func NewThresholdFilter(p ThresholdParams) (*ThresholdFilter, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &ThresholdFilter{Params: p}, nil
}

func (f *ThresholdFilter) Name() string { return "threshold" }

func (f *ThresholdFilter) Decide(ctx Context) model.Signal {
	if ctx.Row.Score < f.Params.ScoreThreshold {
		return model.SignalFlat
	}
	if f.Params.RequireFlag && ctx.Row.Flag != model.FlagYes {
		return model.SignalFlat
	}
	return model.SignalLong
}
