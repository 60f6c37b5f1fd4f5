package cognition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
	"github.com/redis/go-redis/v9"
)

// BaselineCache memoizes established baselines. Entries never expire
// because a baseline is frozen once established.
type BaselineCache interface {
	Get(ctx context.Context, patientID string) (cognitive.MetricVector, bool, error)
	Set(ctx context.Context, patientID string, b cognitive.MetricVector) error
	Len(ctx context.Context) (int, error)
	Close() error
}

// memoryCache is the in-process BaselineCache.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]cognitive.MetricVector
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]cognitive.MetricVector)}
}

func (c *memoryCache) Get(_ context.Context, patientID string) (cognitive.MetricVector, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.entries[patientID]
	return b, ok, nil
}

func (c *memoryCache) Set(_ context.Context, patientID string, b cognitive.MetricVector) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[patientID] = b
	return nil
}

func (c *memoryCache) Len(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

func (c *memoryCache) Close() error {
	return nil
}

// redisCache stores baselines as JSON under prefix+patientID so that
// several replicas share one memo.
type redisCache struct {
	client *redis.Client
	prefix string
}

func newRedisCache(cfg CacheConfig) *redisCache {
	return &redisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
		prefix: cfg.KeyPrefix,
	}
}

func (c *redisCache) ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, patientID string) (cognitive.MetricVector, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+patientID).Bytes()
	if errors.Is(err, redis.Nil) {
		return cognitive.MetricVector{}, false, nil
	}
	if err != nil {
		return cognitive.MetricVector{}, false, fmt.Errorf("redis get baseline: %w", err)
	}
	var b cognitive.MetricVector
	if err := json.Unmarshal(val, &b); err != nil {
		return cognitive.MetricVector{}, false, fmt.Errorf("decode cached baseline: %w", err)
	}
	return b, true, nil
}

func (c *redisCache) Set(ctx context.Context, patientID string, b cognitive.MetricVector) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+patientID, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set baseline: %w", err)
	}
	return nil
}

func (c *redisCache) Len(ctx context.Context) (int, error) {
	var n int
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan baselines: %w", err)
	}
	return n, nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
