package marketdata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tga-liquidity/internal/config"
	"tga-liquidity/internal/metrics"
)

// Built is a configured Source and the resources it holds.
type Built struct {
	Source  Source
	closers []func() error
}

func (b *Built) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// FromConfig assembles provider, optional cache and instrumentation.
func FromConfig(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*Built, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Built{}

	var src Source
	switch cfg.MarketData.Provider {
	case config.ProviderCSV:
		src = NewCSVFileSource(cfg.MarketData.PriceFile)
	case config.ProviderYahoo, "":
		src = NewYahooClient(cfg.MarketData.BaseURL, logger)
	default:
		return nil, fmt.Errorf("unknown market data provider %q", cfg.MarketData.Provider)
	}

	if cfg.Cache.Enabled {
		ttl, err := cfg.Cache.TTLDuration()
		if err != nil {
			return nil, fmt.Errorf("cache ttl: %w", err)
		}
		var cache Cache
		switch cfg.Cache.Backend {
		case config.CacheRedis:
			rc, err := NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisDB, cfg.Cache.RedisPassword, ttl)
			if err != nil {
				return nil, err
			}
			b.closers = append(b.closers, rc.Close)
			cache = rc
		default:
			mc := NewMemoryCache(ttl)
			b.closers = append(b.closers, mc.Close)
			cache = mc
		}
		logger.Info("price cache enabled", "backend", cfg.Cache.Backend, "ttl", ttl)
		src = NewCachedSource(src, cache, logger)
	}

	provider := cfg.MarketData.Provider
	if provider == "" {
		provider = config.ProviderYahoo
	}
	b.Source = NewInstrumentedSource(src, provider, m)
	return b, nil
}
