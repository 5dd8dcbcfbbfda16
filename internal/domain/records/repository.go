package records

import (
	"context"
	"time"

	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/google/uuid"
)

// DueDateRepository defines the interface for due date persistence.
//
// CreateWithinQuota and DeleteWithDecrement couple the record write with its
// usage counter update in a single transaction, so a caller abandoning a
// request mid-flight can never leave the counter out of step with the rows.
type DueDateRepository interface {
	// CreateWithinQuota inserts the due date and increments the firm's usage
	// counter for periodKey in one transaction. The increment is conditional:
	// it only applies while the resulting count stays within limit (the
	// unlimited sentinel always applies). When the firm has no slot left the
	// whole transaction is rolled back and billing.ErrQuotaExhausted is
	// returned. On success the new counter value is returned.
	CreateWithinQuota(ctx context.Context, dueDate *DueDate, periodKey billing.PeriodKey, limit int64) (int64, error)

	// DeleteWithDecrement removes the due date and applies the compensating
	// decrement to the counter of the period the record was created in, in
	// one transaction. The counter never goes below zero.
	DeleteWithDecrement(ctx context.Context, firmID, id uuid.UUID, periodKey billing.PeriodKey) error

	// FindByID finds a due date by ID, scoped to a firm
	FindByID(ctx context.Context, firmID, id uuid.UUID) (*DueDate, error)

	// FindByFirm returns a page of the firm's due dates plus the total count
	FindByFirm(ctx context.Context, firmID uuid.UUID, page, pageSize int) ([]*DueDate, int64, error)

	// Save persists status changes to an existing due date
	Save(ctx context.Context, dueDate *DueDate) error

	// CountCreatedBetween counts the firm's due dates created in [start, end).
	// This is the source of truth the reconciliation pass recomputes counters
	// from.
	CountCreatedBetween(ctx context.Context, firmID uuid.UUID, start, end time.Time) (int64, error)
}
