package marketdata

import (
	"context"
	"time"

	"tga-liquidity/internal/metrics"
	"tga-liquidity/internal/model"
)

type cacheHitKey struct{}

// markCacheHit flags the request context so an outer InstrumentedSource can
// label the fetch as served from cache.
func markCacheHit(ctx context.Context) {
	if hit, ok := ctx.Value(cacheHitKey{}).(*bool); ok {
		*hit = true
	}
}

// InstrumentedSource counts fetches per source and outcome.
type InstrumentedSource struct {
	next    Source
	name    string
	metrics *metrics.Metrics
}

func NewInstrumentedSource(next Source, name string, m *metrics.Metrics) *InstrumentedSource {
	return &InstrumentedSource{next: next, name: name, metrics: m}
}

func (s *InstrumentedSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	hit := false
	points, err := s.next.FetchDaily(context.WithValue(ctx, cacheHitKey{}, &hit), symbol, start, end)

	outcome := metrics.Outcome(err, false)
	if err == nil && hit {
		outcome = metrics.OutcomeCacheHit
	}
	s.metrics.PriceFetch(s.name, outcome)
	return points, err
}
