package strategy

import "tga-liquidity/internal/model"

type Context struct {
	Index int
	Row   model.SignalRow
}

// Strategy decides the position for one row. Implementations must be pure:
// the same Context always yields the same Signal.
type Strategy interface {
	Name() string
	Decide(ctx Context) model.Signal
}
