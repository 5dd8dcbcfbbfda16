package billing

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/firmdesk/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrStatusUnavailable is returned when no fresh status can be fetched and no
// cached snapshot is recent enough to stand in for it
var ErrStatusUnavailable = shared.NewDomainError("STATUS_UNAVAILABLE", "Quota status is temporarily unavailable")

// StatusResult is a quota status snapshot for display, with its provenance
type StatusResult struct {
	Status    billing.QuotaStatus
	FetchedAt time.Time
	Stale     bool
}

// StatusService serves quota status for display, trading staleness for
// latency: snapshots younger than the freshness window are served from cache,
// older ones trigger a refetch, and when the refetch fails a snapshot within
// the grace window still covers the request. Display status never gates
// creation; the storage layer enforces limits on its own.
type StatusService struct {
	quota           *QuotaService
	cache           cache.QuotaStatusCache
	freshnessWindow time.Duration
	gracePeriod     time.Duration
	clock           clock.Clock
	logger          *zap.Logger
}

// StatusServiceOption is a functional option for configuring the service
type StatusServiceOption func(*StatusService)

// WithStatusClock sets the clock used for age decisions, for tests
func WithStatusClock(clk clock.Clock) StatusServiceOption {
	return func(s *StatusService) {
		s.clock = clk
	}
}

// WithStatusLogger sets the logger for the service
func WithStatusLogger(logger *zap.Logger) StatusServiceOption {
	return func(s *StatusService) {
		s.logger = logger
	}
}

// NewStatusService creates a new StatusService
func NewStatusService(
	quota *QuotaService,
	statusCache cache.QuotaStatusCache,
	freshnessWindow, gracePeriod time.Duration,
	opts ...StatusServiceOption,
) *StatusService {
	s := &StatusService{
		quota:           quota,
		cache:           statusCache,
		freshnessWindow: freshnessWindow,
		gracePeriod:     gracePeriod,
		clock:           clock.New(),
		logger:          zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FreshnessWindow returns how long a served snapshot stays fresh
func (s *StatusService) FreshnessWindow() time.Duration {
	return s.freshnessWindow
}

// Status returns the firm's quota status for display. forceRefresh bypasses
// the cache entirely; a forced refetch that fails still falls back to a
// snapshot within the grace window.
func (s *StatusService) Status(ctx context.Context, firmID uuid.UUID, forceRefresh bool) (*StatusResult, error) {
	now := s.clock.Now()

	cached, err := s.cache.Get(ctx, firmID)
	if err != nil {
		// A broken cache degrades to always refetching
		s.logger.Warn("quota status cache read failed", zap.Error(err))
		cached = nil
	}

	if !forceRefresh && cached != nil && cached.Age(now) <= s.freshnessWindow {
		return &StatusResult{Status: cached.Status, FetchedAt: cached.FetchedAt}, nil
	}

	status, err := s.quota.Status(ctx, firmID)
	if err == nil {
		if cacheErr := s.cache.Set(ctx, firmID, status, now); cacheErr != nil {
			s.logger.Warn("quota status cache write failed", zap.Error(cacheErr))
		}
		return &StatusResult{Status: status, FetchedAt: now}, nil
	}

	if cached != nil && cached.Age(now) <= s.freshnessWindow+s.gracePeriod {
		s.logger.Warn("serving stale quota status after failed refetch",
			zap.String("firm_id", firmID.String()),
			zap.Duration("age", cached.Age(now)),
			zap.Error(err),
		)
		return &StatusResult{Status: cached.Status, FetchedAt: cached.FetchedAt, Stale: true}, nil
	}

	s.logger.Error("quota status unavailable",
		zap.String("firm_id", firmID.String()),
		zap.Error(err),
	)
	return nil, ErrStatusUnavailable
}

// Invalidate drops the firm's cached snapshot so the next read refetches.
// Called after anything that changes usage.
func (s *StatusService) Invalidate(ctx context.Context, firmID uuid.UUID) error {
	return s.cache.Invalidate(ctx, firmID)
}
