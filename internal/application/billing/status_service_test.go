package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/domain/identity"
	"github.com/firmdesk/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testFreshnessWindow = 30 * time.Second
	testGracePeriod     = 2 * time.Minute
)

// statusFixture wires a StatusService whose storage reads either succeed with
// the given usage or fail
type statusFixture struct {
	firm        *identity.Firm
	firmRepo    *mockFirmRepository
	planRepo    *mockPlanRepository
	counters    *mockUsageCounterRepository
	statusCache *mockStatusCache
	clock       *clock.Mock
	svc         *StatusService
}

func newStatusFixture(t *testing.T) *statusFixture {
	t.Helper()

	f := &statusFixture{
		firm:        newTestFirm(t, "free", 1),
		firmRepo:    new(mockFirmRepository),
		planRepo:    new(mockPlanRepository),
		counters:    new(mockUsageCounterRepository),
		statusCache: new(mockStatusCache),
		clock:       mockClockAt(t, "2026-08-15T10:00:00Z"),
	}

	quota := NewQuotaService(f.firmRepo, f.planRepo, f.counters, WithQuotaClock(f.clock))
	f.svc = NewStatusService(quota, f.statusCache, testFreshnessWindow, testGracePeriod,
		WithStatusClock(f.clock))
	return f
}

func (f *statusFixture) storageReturns(used int64) {
	ctx := mock.Anything
	f.firmRepo.On("FindByID", ctx, f.firm.ID).Return(f.firm, nil)
	f.planRepo.On("FindByID", ctx, "free").Return(
		&billing.Plan{ID: "free", Name: "Free", DueDateLimit: 10}, nil)
	f.counters.On("Read", ctx, f.firm.ID, mock.Anything).Return(used, nil)
}

func (f *statusFixture) storageFails(err error) {
	f.firmRepo.On("FindByID", mock.Anything, f.firm.ID).Return(nil, err)
}

func TestStatusService_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches and caches on a cold cache", func(t *testing.T) {
		f := newStatusFixture(t)
		f.storageReturns(4)
		f.statusCache.On("Get", ctx, f.firm.ID).Return(nil, nil)
		f.statusCache.On("Set", ctx, f.firm.ID, mock.Anything, f.clock.Now()).Return(nil)

		result, err := f.svc.Status(ctx, f.firm.ID, false)
		require.NoError(t, err)
		assert.Equal(t, int64(4), result.Status.Used)
		assert.False(t, result.Stale)
		f.statusCache.AssertCalled(t, "Set", ctx, f.firm.ID, mock.Anything, f.clock.Now())
	})

	t.Run("serves a snapshot within the freshness window without refetching", func(t *testing.T) {
		f := newStatusFixture(t)
		fetchedAt := f.clock.Now().Add(-20 * time.Second)
		f.statusCache.On("Get", ctx, f.firm.ID).Return(&cache.CachedStatus{
			Status:    billing.StatusFor(4, 10),
			FetchedAt: fetchedAt,
		}, nil)

		result, err := f.svc.Status(ctx, f.firm.ID, false)
		require.NoError(t, err)
		assert.Equal(t, int64(4), result.Status.Used)
		assert.True(t, result.FetchedAt.Equal(fetchedAt))
		assert.False(t, result.Stale)
		f.firmRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("refetches a snapshot past the freshness window", func(t *testing.T) {
		f := newStatusFixture(t)
		f.storageReturns(6)
		f.statusCache.On("Get", ctx, f.firm.ID).Return(&cache.CachedStatus{
			Status:    billing.StatusFor(4, 10),
			FetchedAt: f.clock.Now().Add(-45 * time.Second),
		}, nil)
		f.statusCache.On("Set", ctx, f.firm.ID, mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.Status(ctx, f.firm.ID, false)
		require.NoError(t, err)
		assert.Equal(t, int64(6), result.Status.Used)
		assert.False(t, result.Stale)
	})

	t.Run("forceRefresh bypasses a fresh snapshot", func(t *testing.T) {
		f := newStatusFixture(t)
		f.storageReturns(6)
		f.statusCache.On("Get", ctx, f.firm.ID).Return(&cache.CachedStatus{
			Status:    billing.StatusFor(4, 10),
			FetchedAt: f.clock.Now().Add(-5 * time.Second),
		}, nil)
		f.statusCache.On("Set", ctx, f.firm.ID, mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.Status(ctx, f.firm.ID, true)
		require.NoError(t, err)
		assert.Equal(t, int64(6), result.Status.Used)
	})

	t.Run("serves a stale snapshot within the grace window when the refetch fails", func(t *testing.T) {
		f := newStatusFixture(t)
		f.storageFails(errors.New("connection refused"))
		fetchedAt := f.clock.Now().Add(-90 * time.Second)
		f.statusCache.On("Get", ctx, f.firm.ID).Return(&cache.CachedStatus{
			Status:    billing.StatusFor(4, 10),
			FetchedAt: fetchedAt,
		}, nil)

		result, err := f.svc.Status(ctx, f.firm.ID, false)
		require.NoError(t, err)
		assert.Equal(t, int64(4), result.Status.Used)
		assert.True(t, result.Stale)
	})

	t.Run("fails when the refetch fails and the snapshot is past the grace window", func(t *testing.T) {
		f := newStatusFixture(t)
		f.storageFails(errors.New("connection refused"))
		f.statusCache.On("Get", ctx, f.firm.ID).Return(&cache.CachedStatus{
			Status:    billing.StatusFor(4, 10),
			FetchedAt: f.clock.Now().Add(-3 * time.Minute),
		}, nil)

		_, err := f.svc.Status(ctx, f.firm.ID, false)
		assert.ErrorIs(t, err, ErrStatusUnavailable)
	})

	t.Run("fails when the refetch fails and the cache is cold", func(t *testing.T) {
		f := newStatusFixture(t)
		f.storageFails(errors.New("connection refused"))
		f.statusCache.On("Get", ctx, f.firm.ID).Return(nil, nil)

		_, err := f.svc.Status(ctx, f.firm.ID, false)
		assert.ErrorIs(t, err, ErrStatusUnavailable)
	})

	t.Run("a failing cache read degrades to a refetch", func(t *testing.T) {
		f := newStatusFixture(t)
		f.storageReturns(4)
		f.statusCache.On("Get", ctx, f.firm.ID).Return(nil, errors.New("redis down"))
		f.statusCache.On("Set", ctx, f.firm.ID, mock.Anything, mock.Anything).Return(errors.New("redis down"))

		result, err := f.svc.Status(ctx, f.firm.ID, false)
		require.NoError(t, err)
		assert.Equal(t, int64(4), result.Status.Used)
	})
}

func TestStatusService_Invalidate(t *testing.T) {
	ctx := context.Background()
	f := newStatusFixture(t)
	f.statusCache.On("Invalidate", ctx, f.firm.ID).Return(nil)

	require.NoError(t, f.svc.Invalidate(ctx, f.firm.ID))
	f.statusCache.AssertCalled(t, "Invalidate", ctx, f.firm.ID)
}
