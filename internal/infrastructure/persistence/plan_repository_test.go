package persistence

import (
	"context"
	"testing"

	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPlanRepository(db)

	t.Run("Seed inserts the default plans", func(t *testing.T) {
		require.NoError(t, repo.Seed(ctx, billing.DefaultPlans()))

		plans, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, plans, 4)
	})

	t.Run("Seed is idempotent and preserves existing rows", func(t *testing.T) {
		require.NoError(t, repo.Seed(ctx, billing.DefaultPlans()))
		require.NoError(t, repo.Seed(ctx, billing.DefaultPlans()))

		plans, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, plans, 4)
	})

	t.Run("FindByID returns the plan", func(t *testing.T) {
		plan, err := repo.FindByID(ctx, "free")
		require.NoError(t, err)
		assert.Equal(t, "Free", plan.Name)
		assert.Equal(t, int64(10), plan.DueDateLimit)
		assert.False(t, plan.IsUnlimited())

		enterprise, err := repo.FindByID(ctx, "enterprise")
		require.NoError(t, err)
		assert.True(t, enterprise.IsUnlimited())
	})

	t.Run("FindByID returns not found for unknown plans", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "platinum")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
