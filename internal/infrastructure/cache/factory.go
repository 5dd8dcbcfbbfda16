package cache

import (
	"fmt"
	"time"

	"github.com/firmdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StatusCacheFactory creates quota status caches based on configuration
type StatusCacheFactory struct {
	quotaConfig           config.QuotaConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StatusCacheFactoryOption is a functional option for configuring the factory
type StatusCacheFactoryOption func(*StatusCacheFactory)

// WithFactoryLogger sets the logger for the factory
func WithFactoryLogger(logger *zap.Logger) StatusCacheFactoryOption {
	return func(f *StatusCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) StatusCacheFactoryOption {
	return func(f *StatusCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStatusCacheFactory creates a new factory
func NewStatusCacheFactory(quotaCfg config.QuotaConfig, redisCfg config.RedisConfig, opts ...StatusCacheFactoryOption) *StatusCacheFactory {
	f := &StatusCacheFactory{
		quotaConfig:           quotaCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// retention is how long a snapshot stays useful: the freshness window plus
// the grace window in which a stale snapshot may still be served.
func (f *StatusCacheFactory) retention() time.Duration {
	return f.quotaConfig.FreshnessWindow + f.quotaConfig.GracePeriod
}

// CreateRedisCache creates a Redis-based quota status cache
func (f *StatusCacheFactory) CreateRedisCache() (QuotaStatusCache, error) {
	cache, err := NewRedisStatusCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.retention())
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis quota status cache: %w", err)
	}
	return cache, nil
}

// CreateInMemoryCache creates an in-memory quota status cache
func (f *StatusCacheFactory) CreateInMemoryCache() QuotaStatusCache {
	return NewInMemoryStatusCache(
		WithInMemoryRetention(f.retention()),
		WithInMemoryLogger(f.logger),
	)
}

// CreateCache creates a quota status cache for the configured backend.
// When the Redis backend is requested but unreachable it falls back to the
// in-memory cache unless fallback is disallowed.
func (f *StatusCacheFactory) CreateCache() (QuotaStatusCache, error) {
	switch f.quotaConfig.CacheBackend {
	case "redis":
		cache, err := f.CreateRedisCache()
		if err == nil {
			f.logger.Info("using Redis quota status cache")
			return cache, nil
		}

		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for quota status cache but unavailable: %w", err)
		}

		f.logger.Warn("Redis unavailable, falling back to in-memory quota status cache. "+
			"Instances will not share display status in distributed deployments.",
			zap.Error(err),
		)
		return f.CreateInMemoryCache(), nil
	case "memory", "":
		return f.CreateInMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unknown quota status cache backend: %q", f.quotaConfig.CacheBackend)
	}
}
