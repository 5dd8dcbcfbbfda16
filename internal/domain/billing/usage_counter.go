package billing

import (
	"time"

	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UsageCounter is the persisted count of due dates a firm created in one
// billing period. Counters are created lazily on first use within a period and
// are never deleted on rollover; past periods remain queryable for billing
// history. The count only moves down through a compensating decrement when a
// due date is deleted, or through reconciliation against the live due date
// rows.
type UsageCounter struct {
	shared.BaseEntity
	FirmID    uuid.UUID
	PeriodKey PeriodKey
	Count     int64
}

// NewUsageCounter creates a fresh counter for a firm and period
func NewUsageCounter(firmID uuid.UUID, periodKey PeriodKey) (*UsageCounter, error) {
	if firmID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FIRM", "Firm ID cannot be empty")
	}
	if periodKey == "" {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period key cannot be empty")
	}
	return &UsageCounter{
		BaseEntity: shared.NewBaseEntity(),
		FirmID:     firmID,
		PeriodKey:  periodKey,
		Count:      0,
	}, nil
}

// PeriodStart parses the period start date encoded in the key
func (c *UsageCounter) PeriodStart() (time.Time, error) {
	return time.Parse("2006-01-02", string(c.PeriodKey))
}
