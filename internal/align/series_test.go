package align

import (
	"math"
	"testing"
	"time"

	"tga-liquidity/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func balances(pairs ...any) []model.DailyBalance {
	out := make([]model.DailyBalance, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, model.DailyBalance{
			Date:    day(pairs[i].(string)),
			Balance: decimal.NewFromInt(int64(pairs[i+1].(int))),
		})
	}
	return out
}

func TestDifference_FirstDeltaUndefined(t *testing.T) {
	deltas := Difference(balances("2024-01-04", 100, "2024-01-11", 105, "2024-01-18", 103))

	require.Len(t, deltas, 3)
	assert.False(t, deltas[0].Delta.Valid, "first delta must be undefined, not zero")
	assert.True(t, deltas[1].Delta.Decimal.Equal(decimal.NewFromInt(5)))
	assert.True(t, deltas[2].Delta.Decimal.Equal(decimal.NewFromInt(-2)))
}

func TestDifference_Empty(t *testing.T) {
	assert.Empty(t, Difference(nil))
}

func TestSortBalances_DoesNotMutateInput(t *testing.T) {
	in := balances("2024-01-18", 103, "2024-01-04", 100, "2024-01-11", 105)
	out := SortBalances(in)

	assert.Equal(t, day("2024-01-18"), in[0].Date)
	assert.Equal(t, []time.Time{day("2024-01-04"), day("2024-01-11"), day("2024-01-18")},
		[]time.Time{out[0].Date, out[1].Date, out[2].Date})
}

func TestWeekEnding(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-01", "2024-01-04"}, // Monday
		{"2024-01-04", "2024-01-04"}, // Thursday is its own anchor
		{"2024-01-05", "2024-01-11"}, // Friday rolls into next week
		{"2024-01-07", "2024-01-11"}, // Sunday
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, day(tt.want), weekEnding(day(tt.in), time.Thursday))
		})
	}
}

func TestResampleWeekly_LastObservationAndGaps(t *testing.T) {
	prices := []model.PricePoint{
		{Date: day("2024-01-02"), Price: 10},
		{Date: day("2024-01-01"), Price: 9}, // out of order on purpose
		{Date: day("2024-01-04"), Price: 12},
		{Date: day("2024-01-03"), Price: 11},
		{Date: day("2024-01-05"), Price: 13},
		// week ending 2024-01-18 has no data
		{Date: day("2024-01-19"), Price: 15},
		{Date: day("2024-01-22"), Price: math.NaN()},
	}

	weekly := ResampleWeekly(prices, time.Thursday)

	require.Len(t, weekly, 3)
	assert.Equal(t, model.PricePoint{Date: day("2024-01-04"), Price: 12}, weekly[0])
	assert.Equal(t, model.PricePoint{Date: day("2024-01-11"), Price: 13}, weekly[1])
	assert.Equal(t, model.PricePoint{Date: day("2024-01-25"), Price: 15}, weekly[2])
}

func TestResampleWeekly_OtherAnchor(t *testing.T) {
	prices := []model.PricePoint{
		{Date: day("2024-01-04"), Price: 1}, // Thu
		{Date: day("2024-01-05"), Price: 2}, // Fri
		{Date: day("2024-01-08"), Price: 3}, // Mon
	}
	weekly := ResampleWeekly(prices, time.Friday)

	require.Len(t, weekly, 2)
	assert.Equal(t, day("2024-01-05"), weekly[0].Date)
	assert.Equal(t, 2.0, weekly[0].Price)
	assert.Equal(t, day("2024-01-12"), weekly[1].Date)
}

func TestPeriodReturns(t *testing.T) {
	weekly := []model.PricePoint{
		{Date: day("2024-01-04"), Price: 100},
		{Date: day("2024-01-11"), Price: 101},
		{Date: day("2024-01-18"), Price: 0},
		{Date: day("2024-01-25"), Price: 50},
	}
	rets := PeriodReturns(weekly)

	require.Len(t, rets, 4)
	assert.False(t, rets[0].Return.Valid)
	assert.True(t, rets[1].Return.Valid)
	assert.InDelta(t, 0.01, rets[1].Return.Value, 1e-12)
	assert.InDelta(t, -1.0, rets[2].Return.Value, 1e-12)
	assert.False(t, rets[3].Return.Valid, "return after a zero price is undefined")
}

// Scenario A: deltas [NA,5,-2] joined with returns [NA,0.01,-0.02] gives two rows.
func TestJoinInnerDropNA_ScenarioA(t *testing.T) {
	deltas := Difference(balances("2024-01-04", 100, "2024-01-11", 105, "2024-01-18", 103))
	returns := []model.PeriodReturn{
		{Date: day("2024-01-04")},
		{Date: day("2024-01-11"), Return: model.OptionalFloat{Value: 0.01, Valid: true}},
		{Date: day("2024-01-18"), Return: model.OptionalFloat{Value: -0.02, Valid: true}},
	}

	joint := JoinInnerDropNA(deltas, returns)

	require.Len(t, joint, 2)
	assert.Equal(t, day("2024-01-11"), joint[0].Date)
	assert.True(t, joint[0].DeltaBalance.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 0.01, joint[0].PeriodReturn)
	assert.Equal(t, day("2024-01-18"), joint[1].Date)
	assert.True(t, joint[1].DeltaBalance.Equal(decimal.NewFromInt(-2)))
	assert.Equal(t, -0.02, joint[1].PeriodReturn)
}

func TestJoinInnerDropNA_NoOverlapIsEmpty(t *testing.T) {
	deltas := Difference(balances("2024-01-03", 100, "2024-01-10", 105))
	returns := PeriodReturns([]model.PricePoint{
		{Date: day("2024-01-04"), Price: 100},
		{Date: day("2024-01-11"), Price: 101},
	})

	joint := JoinInnerDropNA(deltas, returns)
	assert.NotNil(t, joint)
	assert.Empty(t, joint)
}

func TestJoinInnerDropNA_StrictlyIncreasing(t *testing.T) {
	deltas := []model.BalanceDelta{
		{Date: day("2024-01-18"), Delta: decimal.NewNullDecimal(decimal.NewFromInt(1))},
		{Date: day("2024-01-04"), Delta: decimal.NewNullDecimal(decimal.NewFromInt(2))},
		{Date: day("2024-01-11"), Delta: decimal.NewNullDecimal(decimal.NewFromInt(3))},
	}
	returns := []model.PeriodReturn{
		{Date: day("2024-01-04"), Return: model.OptionalFloat{Value: 0.1, Valid: true}},
		{Date: day("2024-01-11"), Return: model.OptionalFloat{Value: 0.2, Valid: true}},
		{Date: day("2024-01-18"), Return: model.OptionalFloat{Value: 0.3, Valid: true}},
	}

	joint := JoinInnerDropNA(deltas, returns)
	require.Len(t, joint, 3)
	for i := 1; i < len(joint); i++ {
		assert.True(t, joint[i].Date.After(joint[i-1].Date))
	}
}
