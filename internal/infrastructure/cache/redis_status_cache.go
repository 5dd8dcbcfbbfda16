package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultStatusKeyPrefix = "quota:status:"

// RedisStatusCache implements QuotaStatusCache using Redis. Suitable for
// deployments with multiple instances that should agree on what a firm was
// last shown.
type RedisStatusCache struct {
	client     *redis.Client
	ownsClient bool
	keyPrefix  string
	retention  time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisStatusCache creates a new Redis-based quota status cache
func NewRedisStatusCache(cfg RedisConfig, retention time.Duration) (*RedisStatusCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := NewRedisStatusCacheWithClient(client, retention)
	cache.ownsClient = true
	return cache, nil
}

// NewRedisStatusCacheWithClient creates a cache with an existing Redis client.
// The caller keeps ownership of the client.
func NewRedisStatusCacheWithClient(client *redis.Client, retention time.Duration) *RedisStatusCache {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &RedisStatusCache{
		client:    client,
		keyPrefix: defaultStatusKeyPrefix,
		retention: retention,
	}
}

func (c *RedisStatusCache) key(firmID uuid.UUID) string {
	return c.keyPrefix + firmID.String()
}

// Get retrieves the cached snapshot for a firm, or nil on a miss
func (c *RedisStatusCache) Get(ctx context.Context, firmID uuid.UUID) (*CachedStatus, error) {
	data, err := c.client.Get(ctx, c.key(firmID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read quota status from Redis: %w", err)
	}

	var snapshot CachedStatus
	if err := json.Unmarshal(data, &snapshot); err != nil {
		// A corrupt entry is treated as a miss; the caller will refetch
		return nil, nil
	}
	return &snapshot, nil
}

// Set stores a fresh snapshot for a firm. Redis handles eviction via TTL.
func (c *RedisStatusCache) Set(ctx context.Context, firmID uuid.UUID, status billing.QuotaStatus, fetchedAt time.Time) error {
	data, err := json.Marshal(&CachedStatus{Status: status, FetchedAt: fetchedAt})
	if err != nil {
		return fmt.Errorf("failed to marshal quota status: %w", err)
	}

	if err := c.client.Set(ctx, c.key(firmID), data, c.retention).Err(); err != nil {
		return fmt.Errorf("failed to store quota status in Redis: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot for a firm
func (c *RedisStatusCache) Invalidate(ctx context.Context, firmID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(firmID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate quota status in Redis: %w", err)
	}
	return nil
}

// Close closes the Redis client if the cache created it
func (c *RedisStatusCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisStatusCache implements QuotaStatusCache
var _ QuotaStatusCache = (*RedisStatusCache)(nil)
