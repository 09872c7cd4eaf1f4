// Package marketdata provides the daily index price sources used by the
// alignment engine: the Yahoo chart API, local CSV files, and caching and
// instrumentation decorators over either.
package marketdata

import (
	"context"
	"fmt"
	"time"

	"tga-liquidity/internal/model"
)

// Source returns daily adjusted closes for symbol between start and end,
// both inclusive, in ascending date order.
type Source interface {
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error)
}

// SourceError is a failure reported by a remote price provider.
type SourceError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // set for rate limit errors
}

func (e *SourceError) Error() string {
	return e.Message
}

func (e *SourceError) Is(target error) bool {
	return target == model.ErrDataSourceUnavailable
}

func validateRange(symbol string, start, end time.Time) error {
	if symbol == "" {
		return fmt.Errorf("%w: symbol is required", model.ErrInvalidInput)
	}
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", model.ErrInvalidInput)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start %s is after end %s", model.ErrInvalidInput,
			start.Format(model.DateLayout), end.Format(model.DateLayout))
	}
	return nil
}

// within keeps points whose day falls in [start, end].
func within(points []model.PricePoint, start, end time.Time) []model.PricePoint {
	start, end = model.Day(start), model.Day(end)
	out := points[:0]
	for _, p := range points {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}
