package analysis

import (
	"sort"

	"tga-liquidity/internal/backtest"
)

// Variation is one named filter setting evaluated over the same signal table.
type Variation struct {
	Name    string
	Config  backtest.Config
	Summary *backtest.Summary // nil when the table was empty
}

type RankedVariation struct {
	Rank int
	Variation
}

// RankByStrategyReturn sorts variations by total strategy return, best first.
// Ties keep input order. Variations without a summary sort last.
func RankByStrategyReturn(vars []Variation) []RankedVariation {
	out := make([]RankedVariation, len(vars))
	for i, v := range vars {
		out[i] = RankedVariation{Variation: v}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Summary, out[j].Summary
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.TotalStrategyReturn > b.TotalStrategyReturn
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
