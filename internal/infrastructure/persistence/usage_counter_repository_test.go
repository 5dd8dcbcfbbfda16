package persistence

import (
	"context"
	"testing"

	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageCounterRepository_Read(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUsageCounterRepository(db)
	firmID := uuid.New()
	periodKey := billing.PeriodKey("2026-08-01")

	t.Run("returns zero for an absent counter", func(t *testing.T) {
		count, err := repo.Read(ctx, firmID, periodKey)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("returns the stored count", func(t *testing.T) {
		require.NoError(t, repo.SetCount(ctx, firmID, periodKey, 7))

		count, err := repo.Read(ctx, firmID, periodKey)
		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
	})
}

func TestUsageCounterRepository_SetCount(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUsageCounterRepository(db)
	firmID := uuid.New()
	periodKey := billing.PeriodKey("2026-08-01")

	t.Run("creates the row when missing", func(t *testing.T) {
		require.NoError(t, repo.SetCount(ctx, firmID, periodKey, 3))

		count, err := repo.Read(ctx, firmID, periodKey)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("overwrites an existing count", func(t *testing.T) {
		require.NoError(t, repo.SetCount(ctx, firmID, periodKey, 12))

		count, err := repo.Read(ctx, firmID, periodKey)
		require.NoError(t, err)
		assert.Equal(t, int64(12), count)
	})

	t.Run("rejects negative counts", func(t *testing.T) {
		err := repo.SetCount(ctx, firmID, periodKey, -1)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestUsageCounterRepository_FindByFirm(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUsageCounterRepository(db)
	firmID := uuid.New()

	require.NoError(t, repo.SetCount(ctx, firmID, billing.PeriodKey("2026-06-01"), 10))
	require.NoError(t, repo.SetCount(ctx, firmID, billing.PeriodKey("2026-08-01"), 2))
	require.NoError(t, repo.SetCount(ctx, firmID, billing.PeriodKey("2026-07-01"), 5))
	require.NoError(t, repo.SetCount(ctx, uuid.New(), billing.PeriodKey("2026-08-01"), 99))

	counters, err := repo.FindByFirm(ctx, firmID)
	require.NoError(t, err)
	require.Len(t, counters, 3)
	assert.Equal(t, billing.PeriodKey("2026-08-01"), counters[0].PeriodKey)
	assert.Equal(t, billing.PeriodKey("2026-07-01"), counters[1].PeriodKey)
	assert.Equal(t, billing.PeriodKey("2026-06-01"), counters[2].PeriodKey)
}

func TestIncrementCounterWithinLimit(t *testing.T) {
	db := setupTestDB(t)
	firmID := uuid.New()
	periodKey := billing.PeriodKey("2026-08-01")

	t.Run("increments up to the limit then refuses", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			count, err := incrementCounterWithinLimit(db, firmID, periodKey, 3)
			require.NoError(t, err)
			assert.Equal(t, int64(i), count)
		}

		_, err := incrementCounterWithinLimit(db, firmID, periodKey, 3)
		assert.ErrorIs(t, err, billing.ErrQuotaExhausted)
	})

	t.Run("unlimited sentinel never refuses", func(t *testing.T) {
		count, err := incrementCounterWithinLimit(db, firmID, periodKey, billing.UnlimitedLimit)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("rejects other negative limits", func(t *testing.T) {
		_, err := incrementCounterWithinLimit(db, firmID, periodKey, -5)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestDecrementCounter(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUsageCounterRepository(db)
	firmID := uuid.New()
	periodKey := billing.PeriodKey("2026-08-01")

	t.Run("decrements an existing counter", func(t *testing.T) {
		require.NoError(t, repo.SetCount(ctx, firmID, periodKey, 2))
		require.NoError(t, decrementCounter(db, firmID, periodKey))

		count, err := repo.Read(ctx, firmID, periodKey)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("never goes below zero", func(t *testing.T) {
		require.NoError(t, decrementCounter(db, firmID, periodKey))
		require.NoError(t, decrementCounter(db, firmID, periodKey))

		count, err := repo.Read(ctx, firmID, periodKey)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("is a no-op for an absent counter", func(t *testing.T) {
		require.NoError(t, decrementCounter(db, uuid.New(), periodKey))
	})
}
