// Package labelcache keeps the sorted label catalogue out of the hot path of
// GET /api/labels. The cache is invalidated whenever a meal is written.
package labelcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key is the single cache entry holding the label catalogue.
const Key = "cooking_helper:labels"

// Cache stores the label catalogue. Get reports ok=false on a miss.
type Cache interface {
	Get(ctx context.Context) (labels []string, ok bool, err error)
	Set(ctx context.Context, labels []string) error
	Invalidate(ctx context.Context) error
}

// RedisCache is a Cache backed by a Redis string key with a TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis parses a redis:// URL and returns a connected cache.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCache{rdb: rdb, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context) ([]string, bool, error) {
	val, err := c.rdb.Get(ctx, Key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var labels []string
	if err := json.Unmarshal([]byte(val), &labels); err != nil {
		// corrupt entry: treat as a miss so the caller rebuilds it
		return nil, false, nil
	}
	return labels, true, nil
}

func (c *RedisCache) Set(ctx context.Context, labels []string) error {
	b, err := json.Marshal(labels)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, Key, b, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, Key).Err()
}

// HealthPing implements health.HealthPinger.
func (c *RedisCache) HealthPing(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

// Close releases the connection pool.
func (c *RedisCache) Close() error { return c.rdb.Close() }

// MemoryCache is an in-process Cache used when no Redis is configured.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	labels  []string
	expires time.Time
	valid   bool
}

// NewMemory returns an empty in-process cache.
func NewMemory(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryCache) Get(context.Context) ([]string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || (c.ttl > 0 && !c.now().Before(c.expires)) {
		return nil, false, nil
	}
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out, true, nil
}

func (c *MemoryCache) Set(_ context.Context, labels []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels = append([]string(nil), labels...)
	c.expires = c.now().Add(c.ttl)
	c.valid = true
	return nil
}

func (c *MemoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	c.valid = false
	c.labels = nil
	c.mu.Unlock()
	return nil
}
