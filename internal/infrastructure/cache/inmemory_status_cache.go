package cache

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultRetention       = 5 * time.Minute
	defaultCleanupInterval = 30 * time.Second
)

// InMemoryStatusCache implements QuotaStatusCache using in-memory storage.
// Suitable for single-instance deployments; snapshots are not shared across
// processes.
type InMemoryStatusCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*CachedStatus

	retention time.Duration
	clock     clock.Clock
	logger    *zap.Logger
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// InMemoryStatusCacheOption is a functional option for configuring the cache
type InMemoryStatusCacheOption func(*InMemoryStatusCache)

// WithInMemoryRetention sets how long snapshots are kept after being fetched
func WithInMemoryRetention(retention time.Duration) InMemoryStatusCacheOption {
	return func(c *InMemoryStatusCache) {
		if retention > 0 {
			c.retention = retention
		}
	}
}

// WithInMemoryClock sets the clock used for expiry, for tests
func WithInMemoryClock(clk clock.Clock) InMemoryStatusCacheOption {
	return func(c *InMemoryStatusCache) {
		c.clock = clk
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryStatusCacheOption {
	return func(c *InMemoryStatusCache) {
		c.logger = logger
	}
}

// NewInMemoryStatusCache creates a new in-memory quota status cache
func NewInMemoryStatusCache(opts ...InMemoryStatusCacheOption) *InMemoryStatusCache {
	c := &InMemoryStatusCache{
		entries:   make(map[uuid.UUID]*CachedStatus),
		retention: defaultRetention,
		clock:     clock.New(),
		logger:    zap.NewNop(),
		stopCh:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupExpired()

	return c
}

// Get retrieves the cached snapshot for a firm, or nil on a miss.
// Snapshots past the retention window count as misses even before the
// cleanup goroutine removes them.
func (c *InMemoryStatusCache) Get(_ context.Context, firmID uuid.UUID) (*CachedStatus, error) {
	c.mu.RLock()
	entry, ok := c.entries[firmID]
	c.mu.RUnlock()

	if !ok || c.expired(entry) {
		return nil, nil
	}

	snapshot := *entry
	return &snapshot, nil
}

// Set stores a fresh snapshot for a firm
func (c *InMemoryStatusCache) Set(_ context.Context, firmID uuid.UUID, status billing.QuotaStatus, fetchedAt time.Time) error {
	c.mu.Lock()
	c.entries[firmID] = &CachedStatus{Status: status, FetchedAt: fetchedAt}
	c.mu.Unlock()
	return nil
}

// Invalidate drops the cached snapshot for a firm
func (c *InMemoryStatusCache) Invalidate(_ context.Context, firmID uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, firmID)
	c.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryStatusCache) Close() error {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
	return nil
}

func (c *InMemoryStatusCache) expired(entry *CachedStatus) bool {
	return c.clock.Now().Sub(entry.FetchedAt) > c.retention
}

// cleanupExpired periodically removes snapshots past the retention window
func (c *InMemoryStatusCache) cleanupExpired() {
	ticker := c.clock.Ticker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			removed := 0
			for firmID, entry := range c.entries {
				if c.expired(entry) {
					delete(c.entries, firmID)
					removed++
				}
			}
			c.mu.Unlock()

			if removed > 0 {
				c.logger.Debug("evicted expired quota status snapshots",
					zap.Int("count", removed))
			}
		}
	}
}

// Ensure InMemoryStatusCache implements QuotaStatusCache
var _ QuotaStatusCache = (*InMemoryStatusCache)(nil)
