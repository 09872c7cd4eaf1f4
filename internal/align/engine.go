package align

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tga-liquidity/internal/model"
)

// PriceSource supplies the daily index prices the balance series is aligned to.
// Start and end are inclusive calendar dates.
type PriceSource interface {
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error)
}

// Options controls one alignment run.
type Options struct {
	Symbol string       // e.g. "^GSPC"
	Anchor time.Weekday // weekly bucket end; Thursday in the reference setup
	// BufferDays extends the price request past the last balance date so the
	// trailing week still has an anchor observation.
	BufferDays int
}

// DefaultOptions matches the reference dashboard: S&P 500, weeks ending Thursday, 2-day buffer.
func DefaultOptions() Options {
	return Options{
		Symbol:     "^GSPC",
		Anchor:     time.Thursday,
		BufferDays: 2,
	}
}

// Result holds every intermediate series so presentation code can chart them.
type Result struct {
	Balances     []model.DailyBalance
	Deltas       []model.BalanceDelta
	WeeklyPrices []model.PricePoint
	Returns      []model.PeriodReturn
	Joint        []model.WeeklyRow

	PriceStart time.Time
	PriceEnd   time.Time
}

// Empty reports whether the balance and price series had no overlapping week.
func (r *Result) Empty() bool { return r == nil || len(r.Joint) == 0 }

type Engine struct {
	prices PriceSource
	logger *slog.Logger
}

func New(prices PriceSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{prices: prices, logger: logger.With("component", "align")}
}

// Align runs sort, validate, fetch, resample, return, difference and join.
// It either returns a complete Result or an error; nothing partial.
func (e *Engine) Align(ctx context.Context, balances []model.DailyBalance, opts Options) (*Result, error) {
	if e.prices == nil {
		return nil, fmt.Errorf("price source is nil")
	}
	if len(balances) == 0 {
		return nil, fmt.Errorf("%w: balance series is empty", model.ErrInvalidInput)
	}
	if opts.Symbol == "" {
		opts.Symbol = DefaultOptions().Symbol
	}
	if opts.BufferDays < 0 {
		return nil, fmt.Errorf("%w: buffer days must be >= 0", model.ErrInvalidInput)
	}

	sorted := SortBalances(balances)
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return nil, fmt.Errorf("%w: duplicate balance date %s",
				model.ErrInvalidInput, sorted[i].Date.Format(model.DateLayout))
		}
	}

	start := sorted[0].Date
	end := sorted[len(sorted)-1].Date.AddDate(0, 0, opts.BufferDays)

	daily, err := e.prices.FetchDaily(ctx, opts.Symbol, start, end)
	if err != nil {
		if !errors.Is(err, model.ErrDataSourceUnavailable) {
			err = fmt.Errorf("%w: %w", model.ErrDataSourceUnavailable, err)
		}
		return nil, err
	}

	weekly := ResampleWeekly(daily, opts.Anchor)
	returns := PeriodReturns(weekly)
	deltas := Difference(sorted)
	joint := JoinInnerDropNA(deltas, returns)

	e.logger.Info("alignment complete",
		"symbol", opts.Symbol,
		"anchor", opts.Anchor.String(),
		"balances", len(sorted),
		"daily_prices", len(daily),
		"weeks", len(weekly),
		"joint_rows", len(joint))

	return &Result{
		Balances:     sorted,
		Deltas:       deltas,
		WeeklyPrices: weekly,
		Returns:      returns,
		Joint:        joint,
		PriceStart:   start,
		PriceEnd:     end,
	}, nil
}
