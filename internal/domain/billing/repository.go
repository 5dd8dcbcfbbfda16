package billing

import (
	"context"

	"github.com/google/uuid"
)

// PlanRepository defines the interface for plan persistence
type PlanRepository interface {
	// FindByID finds a plan by its ID
	FindByID(ctx context.Context, id string) (*Plan, error)

	// FindAll returns all plans
	FindAll(ctx context.Context) ([]*Plan, error)

	// Seed inserts the given plans if they do not exist yet
	Seed(ctx context.Context, plans []*Plan) error
}

// UsageCounterRepository defines the interface for usage counter persistence.
// Read returns 0 for a counter that does not exist yet; counters are created
// lazily by the first increment in a period.
type UsageCounterRepository interface {
	// Read returns the current count for a firm and period (0 if absent)
	Read(ctx context.Context, firmID uuid.UUID, periodKey PeriodKey) (int64, error)

	// FindByFirm returns all historical counters for a firm, newest first
	FindByFirm(ctx context.Context, firmID uuid.UUID) ([]*UsageCounter, error)

	// SetCount overwrites the counter with an authoritative recomputed value.
	// Only the reconciliation pass may call this.
	SetCount(ctx context.Context, firmID uuid.UUID, periodKey PeriodKey, count int64) error
}
