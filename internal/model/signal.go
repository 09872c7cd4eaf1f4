package model

import (
	"strings"
	"time"
)

// Flag is the two-valued categorical column of the signal table
// (e.g. "pivot resonance = yes").
type Flag bool

const (
	FlagNo  Flag = false
	FlagYes Flag = true
)

var affirmativeFlags = map[string]struct{}{
	"yes":  {},
	"y":    {},
	"true": {},
	"1":    {},
	"是":    {},
}

// ParseFlag maps the raw cell to a Flag. Only the affirmative spellings above
// qualify; every other value, including the empty cell, is FlagNo.
func ParseFlag(raw string) Flag {
	_, ok := affirmativeFlags[strings.ToLower(strings.TrimSpace(raw))]
	return Flag(ok)
}

func (f Flag) String() string {
	if f {
		return "yes"
	}
	return "no"
}

// SignalRow is one input row of the signal backtest.
// MarketReturnPct is already in percent: 1.5 means +1.5%.
type SignalRow struct {
	Date            time.Time
	Score           float64
	Flag            Flag
	MarketReturnPct float64
}

// Signal is the 0/1 position derived from the filter for one row.
// Keep these values stable; they are written to ledger CSV output.
type Signal int

const (
	SignalFlat Signal = 0
	SignalLong Signal = 1
)
