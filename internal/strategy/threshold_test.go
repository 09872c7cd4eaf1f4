package strategy

import (
	"math"
	"testing"

	"tga-liquidity/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdFilter_Decide(t *testing.T) {
	tests := []struct {
		name   string
		params ThresholdParams
		row    model.SignalRow
		want   model.Signal
	}{
		{
			name:   "score equal to threshold qualifies",
			params: ThresholdParams{ScoreThreshold: 60},
			row:    model.SignalRow{Score: 60},
			want:   model.SignalLong,
		},
		{
			name:   "score below threshold stays flat",
			params: ThresholdParams{ScoreThreshold: 60},
			row:    model.SignalRow{Score: 59.999},
			want:   model.SignalFlat,
		},
		{
			name:   "flag ignored when not required",
			params: ThresholdParams{ScoreThreshold: 60, RequireFlag: false},
			row:    model.SignalRow{Score: 90, Flag: model.FlagNo},
			want:   model.SignalLong,
		},
		{
			name:   "required flag missing stays flat",
			params: ThresholdParams{ScoreThreshold: 60, RequireFlag: true},
			row:    model.SignalRow{Score: 90, Flag: model.FlagNo},
			want:   model.SignalFlat,
		},
		{
			name:   "required flag present goes long",
			params: ThresholdParams{ScoreThreshold: 60, RequireFlag: true},
			row:    model.SignalRow{Score: 90, Flag: model.FlagYes},
			want:   model.SignalLong,
		},
		{
			name:   "flag alone does not override score",
			params: ThresholdParams{ScoreThreshold: 60, RequireFlag: true},
			row:    model.SignalRow{Score: 10, Flag: model.FlagYes},
			want:   model.SignalFlat,
		},
		{
			name:   "negative threshold",
			params: ThresholdParams{ScoreThreshold: -5},
			row:    model.SignalRow{Score: -5},
			want:   model.SignalLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewThresholdFilter(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Decide(Context{Row: tt.row}))
		})
	}
}

func TestNewThresholdFilter_RejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewThresholdFilter(ThresholdParams{ScoreThreshold: v})
		assert.Error(t, err, v)
	}
}
