package billing

import (
	"github.com/firmdesk/backend/internal/domain/shared"
)

// UnlimitedLimit is the sentinel value meaning a plan has no due date limit
const UnlimitedLimit int64 = -1

// Plan defines a subscription tier. Plans are immutable within a billing
// period; a firm changing plans takes effect immediately for quota checks but
// never rewrites recorded usage.
type Plan struct {
	ID           string
	Name         string
	DueDateLimit int64 // Maximum due dates per billing period (-1 = unlimited)
}

// NewPlan creates a plan definition
func NewPlan(id, name string, dueDateLimit int64) (*Plan, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan ID cannot be empty")
	}
	if dueDateLimit < UnlimitedLimit {
		return nil, shared.NewDomainError("INVALID_LIMIT", "Limit must be -1 (unlimited) or non-negative")
	}
	return &Plan{
		ID:           id,
		Name:         name,
		DueDateLimit: dueDateLimit,
	}, nil
}

// IsUnlimited returns true if the plan has no due date limit
func (p *Plan) IsUnlimited() bool {
	return p.DueDateLimit == UnlimitedLimit
}

// DefaultPlans returns the built-in plan catalog, used to seed a fresh
// database.
func DefaultPlans() []*Plan {
	return []*Plan{
		{ID: "free", Name: "Free", DueDateLimit: 10},
		{ID: "starter", Name: "Starter", DueDateLimit: 100},
		{ID: "pro", Name: "Pro", DueDateLimit: 1000},
		{ID: "enterprise", Name: "Enterprise", DueDateLimit: UnlimitedLimit},
	}
}
