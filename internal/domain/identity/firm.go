package identity

import (
	"time"

	"github.com/firmdesk/backend/internal/domain/shared"
)

// FirmStatus represents the lifecycle state of a firm
type FirmStatus string

const (
	// FirmStatusActive means the firm can use the application normally
	FirmStatusActive FirmStatus = "ACTIVE"

	// FirmStatusSuspended means the firm is blocked from creating new records
	FirmStatusSuspended FirmStatus = "SUSPENDED"
)

// IsValid returns true if the firm status is valid
func (s FirmStatus) IsValid() bool {
	switch s {
	case FirmStatusActive, FirmStatusSuspended:
		return true
	}
	return false
}

// Firm is the tenant aggregate. Every user and every metered record belongs to
// exactly one firm, and the firm's subscription plan determines its due date
// quota. BillingAnchorDay is the day of month (1-28) on which the firm's
// billing period rolls over.
type Firm struct {
	shared.BaseEntity
	Name             string
	PlanID           string
	BillingAnchorDay int
	Status           FirmStatus
}

// NewFirm creates a new firm on the given plan
func NewFirm(name, planID string, billingAnchorDay int) (*Firm, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_FIRM_NAME", "Firm name cannot be empty")
	}
	if planID == "" {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan ID cannot be empty")
	}
	if billingAnchorDay < 1 || billingAnchorDay > 28 {
		return nil, shared.NewDomainError("INVALID_BILLING_ANCHOR", "Billing anchor day must be between 1 and 28")
	}

	return &Firm{
		BaseEntity:       shared.NewBaseEntity(),
		Name:             name,
		PlanID:           planID,
		BillingAnchorDay: billingAnchorDay,
		Status:           FirmStatusActive,
	}, nil
}

// ChangePlan moves the firm to a different subscription plan. The new plan's
// quota takes effect immediately; usage already recorded in the current period
// is kept.
func (f *Firm) ChangePlan(planID string) error {
	if planID == "" {
		return shared.NewDomainError("INVALID_PLAN", "Plan ID cannot be empty")
	}
	f.PlanID = planID
	f.UpdatedAt = time.Now()
	return nil
}

// Suspend blocks the firm from creating new records
func (f *Firm) Suspend() {
	f.Status = FirmStatusSuspended
	f.UpdatedAt = time.Now()
}

// Activate re-enables a suspended firm
func (f *Firm) Activate() {
	f.Status = FirmStatusActive
	f.UpdatedAt = time.Now()
}

// IsActive returns true if the firm may create new records
func (f *Firm) IsActive() bool {
	return f.Status == FirmStatusActive
}
