package cognition

import (
	"fmt"
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
)

// Cache backends for memoized baselines.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds configuration for the cognition module.
type Config struct {
	IngestTimeout time.Duration `mapstructure:"ingest_timeout"`
	HistoryLimit  int           `mapstructure:"history_limit"`
	Cache         CacheConfig   `mapstructure:"cache"`

	// DefaultThresholds apply to clinicians without a stored configuration.
	DefaultThresholds cognitive.ThresholdConfig `mapstructure:"default_thresholds"`
}

// CacheConfig selects where frozen baselines are memoized.
type CacheConfig struct {
	Backend       string `mapstructure:"backend"` // memory | redis
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
}

// DefaultConfig returns the defaults for the cognition module.
func DefaultConfig() Config {
	return Config{
		IngestTimeout: 10 * time.Second,
		HistoryLimit:  100,
		Cache: CacheConfig{
			Backend:   CacheMemory,
			RedisAddr: "localhost:6379",
			KeyPrefix: "alzheon:baseline:",
		},
		DefaultThresholds: cognitive.DefaultThresholds(),
	}
}

func (c Config) validate() error {
	if c.IngestTimeout <= 0 {
		return fmt.Errorf("ingest_timeout must be positive, got %s", c.IngestTimeout)
	}
	if c.HistoryLimit < 1 || c.HistoryLimit > maxLimit {
		return fmt.Errorf("history_limit must be between 1 and %d, got %d", maxLimit, c.HistoryLimit)
	}
	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if err := c.DefaultThresholds.Validate(); err != nil {
		return fmt.Errorf("default_thresholds: %w", err)
	}
	return nil
}
