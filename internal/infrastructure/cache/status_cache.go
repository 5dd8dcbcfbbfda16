package cache

import (
	"context"
	"time"

	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/google/uuid"
)

// CachedStatus is a quota status snapshot together with the time it was
// fetched from storage. Freshness decisions belong to the caller; the cache
// only records when the snapshot was taken.
type CachedStatus struct {
	Status    billing.QuotaStatus `json:"status"`
	FetchedAt time.Time           `json:"fetchedAt"`
}

// Age returns how old the snapshot is at the given instant
func (s *CachedStatus) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// QuotaStatusCache stores per-firm quota status snapshots for display.
// Implementations retain entries long enough to cover the stale-serving
// grace window and evict them afterwards.
type QuotaStatusCache interface {
	// Get returns the cached snapshot for a firm, or nil on a miss
	Get(ctx context.Context, firmID uuid.UUID) (*CachedStatus, error)

	// Set stores a fresh snapshot for a firm
	Set(ctx context.Context, firmID uuid.UUID, status billing.QuotaStatus, fetchedAt time.Time) error

	// Invalidate drops the cached snapshot for a firm
	Invalidate(ctx context.Context, firmID uuid.UUID) error

	// Close releases the cache's resources
	Close() error
}
