package marketdata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"tga-liquidity/internal/model"
)

const DefaultCacheTTL = time.Hour

// Cache stores fetched price series by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]model.PricePoint, bool, error)
	Set(ctx context.Context, key string, points []model.PricePoint) error
}

// CacheKey derives a deterministic key from the request parameters.
func CacheKey(symbol string, start, end time.Time) string {
	keyStr := fmt.Sprintf("%s:%s:%s",
		symbol,
		start.Format(model.DateLayout),
		end.Format(model.DateLayout),
	)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}

type cacheEntry struct {
	points    []model.PricePoint
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache. Expired entries are swept
// periodically until Close is called.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &MemoryCache{
		store: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go c.cleanup(5 * time.Minute)
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]model.PricePoint, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return clonePoints(entry.points), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, points []model.PricePoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = cacheEntry{
		points:    clonePoints(points),
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// Len counts stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

func (c *MemoryCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *MemoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}

func clonePoints(points []model.PricePoint) []model.PricePoint {
	if points == nil {
		return nil
	}
	out := make([]model.PricePoint, len(points))
	copy(out, points)
	return out
}

// RedisCache keeps price series as JSON strings with a TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr string, db int, password string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       db,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, prefix: "tga:prices:", ttl: ttl}, nil
}

type pricePointJSON struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]model.PricePoint, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var stored []pricePointJSON
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached prices: %w", err)
	}
	out := make([]model.PricePoint, 0, len(stored))
	for _, p := range stored {
		d, err := time.Parse(model.DateLayout, p.Date)
		if err != nil {
			return nil, false, fmt.Errorf("cached price date %q: %w", p.Date, err)
		}
		out = append(out, model.PricePoint{Date: d, Price: p.Price})
	}
	return out, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, points []model.PricePoint) error {
	stored := make([]pricePointJSON, len(points))
	for i, p := range points {
		stored[i] = pricePointJSON{Date: p.Date.Format(model.DateLayout), Price: p.Price}
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal prices: %w", err)
	}
	return c.client.Set(ctx, c.prefix+key, data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedSource serves repeated requests from a Cache. Cache failures are
// logged and fall through to the wrapped source.
type CachedSource struct {
	next   Source
	cache  Cache
	logger *slog.Logger
}

func NewCachedSource(next Source, cache Cache, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{next: next, cache: cache, logger: logger.With("component", "marketdata")}
}

func (s *CachedSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	key := CacheKey(symbol, model.Day(start), model.Day(end))

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("price cache read failed", "symbol", symbol, "error", err)
	} else if ok {
		s.logger.Debug("price cache hit", "symbol", symbol, "rows", len(cached))
		markCacheHit(ctx)
		return cached, nil
	}

	points, err := s.next.FetchDaily(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, points); err != nil {
		s.logger.Warn("price cache write failed", "symbol", symbol, "error", err)
	}
	return points, nil
}
