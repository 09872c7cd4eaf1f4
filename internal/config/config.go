package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tga-liquidity/internal/align"
	"tga-liquidity/internal/backtest"

	"gopkg.in/yaml.v3"
)

// Market data providers.
const (
	ProviderYahoo = "yahoo"
	ProviderCSV   = "csv"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	MarketData MarketDataConfig `yaml:"market_data"`
	Alignment  AlignmentConfig  `yaml:"alignment"`
	Backtest   BacktestConfig   `yaml:"backtest"`
	Cache      CacheConfig      `yaml:"cache"`
}

type MarketDataConfig struct {
	Provider string `yaml:"provider"` // yahoo | csv
	BaseURL  string `yaml:"base_url"`
	Symbol   string `yaml:"symbol"`
	// PriceFile is a daily history CSV for the csv provider. Relative paths are
	// resolved against the config file directory first.
	PriceFile string `yaml:"price_file"`
}

type AlignmentConfig struct {
	Anchor     string `yaml:"anchor"` // weekday name, e.g. "thursday"
	BufferDays int    `yaml:"buffer_days"`
}

type BacktestConfig struct {
	ScoreThreshold float64 `yaml:"score_threshold"`
	RequireFlag    bool    `yaml:"require_flag"`
}

type CacheConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Backend       string `yaml:"backend"` // memory | redis
	RedisAddr     string `yaml:"redis_addr"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPassword string `yaml:"redis_password"`
	TTL           string `yaml:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := align.DefaultOptions()
	bt := backtest.DefaultConfig()
	return &Config{
		MarketData: MarketDataConfig{
			Provider: ProviderYahoo,
			Symbol:   opts.Symbol,
		},
		Alignment: AlignmentConfig{
			Anchor:     strings.ToLower(opts.Anchor.String()),
			BufferDays: opts.BufferDays,
		},
		Backtest: BacktestConfig{
			ScoreThreshold: bt.ScoreThreshold,
			RequireFlag:    bt.RequireFlag,
		},
		Cache: CacheConfig{
			Backend:   CacheMemory,
			RedisAddr: "localhost:6379",
			TTL:       "1h",
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies TGA_* environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if p := c.MarketData.PriceFile; p != "" && !filepath.IsAbs(p) {
			cand := filepath.Join(filepath.Dir(path), p)
			if _, err := os.Stat(cand); err == nil {
				c.MarketData.PriceFile = cand
			}
		}
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("TGA_PROVIDER", &c.MarketData.Provider)
	str("TGA_YAHOO_BASE_URL", &c.MarketData.BaseURL)
	str("TGA_SYMBOL", &c.MarketData.Symbol)
	str("TGA_PRICE_FILE", &c.MarketData.PriceFile)
	str("TGA_ANCHOR", &c.Alignment.Anchor)
	str("TGA_CACHE_BACKEND", &c.Cache.Backend)
	str("TGA_REDIS_ADDR", &c.Cache.RedisAddr)
	str("TGA_REDIS_PASSWORD", &c.Cache.RedisPassword)
	str("TGA_CACHE_TTL", &c.Cache.TTL)

	if v, ok := lookup("TGA_BUFFER_DAYS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TGA_BUFFER_DAYS: %w", err)
		}
		c.Alignment.BufferDays = n
	}
	if v, ok := lookup("TGA_SCORE_THRESHOLD"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TGA_SCORE_THRESHOLD: %w", err)
		}
		c.Backtest.ScoreThreshold = f
	}
	if v, ok := lookup("TGA_REQUIRE_FLAG"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TGA_REQUIRE_FLAG: %w", err)
		}
		c.Backtest.RequireFlag = b
	}
	if v, ok := lookup("TGA_CACHE_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TGA_CACHE_ENABLED: %w", err)
		}
		c.Cache.Enabled = b
	}
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch c.MarketData.Provider {
	case ProviderYahoo:
	case ProviderCSV:
		if c.MarketData.PriceFile == "" {
			return errors.New("market_data.price_file is required for the csv provider")
		}
	default:
		return fmt.Errorf("market_data.provider %q is not one of yahoo, csv", c.MarketData.Provider)
	}
	if c.MarketData.Symbol == "" {
		return errors.New("market_data.symbol is required")
	}
	if _, err := ParseWeekday(c.Alignment.Anchor); err != nil {
		return fmt.Errorf("alignment.anchor: %w", err)
	}
	if c.Alignment.BufferDays < 0 {
		return errors.New("alignment.buffer_days must be >= 0")
	}
	if math.IsNaN(c.Backtest.ScoreThreshold) || math.IsInf(c.Backtest.ScoreThreshold, 0) {
		return errors.New("backtest.score_threshold must be finite")
	}
	if c.Cache.Enabled {
		switch c.Cache.Backend {
		case CacheMemory:
		case CacheRedis:
			if c.Cache.RedisAddr == "" {
				return errors.New("cache.redis_addr is required for the redis backend")
			}
		default:
			return fmt.Errorf("cache.backend %q is not one of memory, redis", c.Cache.Backend)
		}
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return fmt.Errorf("cache.ttl: %w", err)
	}
	return nil
}

// AlignOptions converts the alignment section for the engine.
func (c *Config) AlignOptions() (align.Options, error) {
	anchor, err := ParseWeekday(c.Alignment.Anchor)
	if err != nil {
		return align.Options{}, err
	}
	return align.Options{
		Symbol:     c.MarketData.Symbol,
		Anchor:     anchor,
		BufferDays: c.Alignment.BufferDays,
	}, nil
}

func (c *Config) BacktestConfig() backtest.Config {
	return backtest.Config{
		ScoreThreshold: c.Backtest.ScoreThreshold,
		RequireFlag:    c.Backtest.RequireFlag,
	}
}

// TTLDuration parses TTL; empty means zero (the cache default applies).
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("must not be negative")
	}
	return d, nil
}

// ParseWeekday accepts full or three-letter English weekday names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if key == name || key == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
