package records

import (
	"context"
	"errors"
	"time"

	appbilling "github.com/firmdesk/backend/internal/application/billing"
	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/domain/records"
	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusInvalidator drops a firm's cached quota status after a usage change
type StatusInvalidator interface {
	Invalidate(ctx context.Context, firmID uuid.UUID) error
}

// DueDateService handles due date business operations. Creation is metered:
// the storage layer atomically couples the insert with the firm's usage
// counter, so the service only assembles the inputs and translates the
// outcome.
type DueDateService struct {
	dueDateRepo records.DueDateRepository
	quota       *appbilling.QuotaService
	invalidator StatusInvalidator
	logger      *zap.Logger
}

// DueDateServiceOption is a functional option for configuring the service
type DueDateServiceOption func(*DueDateService)

// WithStatusInvalidator sets the cache invalidator called after usage changes
func WithStatusInvalidator(inv StatusInvalidator) DueDateServiceOption {
	return func(s *DueDateService) {
		s.invalidator = inv
	}
}

// WithDueDateLogger sets the logger for the service
func WithDueDateLogger(logger *zap.Logger) DueDateServiceOption {
	return func(s *DueDateService) {
		s.logger = logger
	}
}

// NewDueDateService creates a new DueDateService
func NewDueDateService(
	dueDateRepo records.DueDateRepository,
	quota *appbilling.QuotaService,
	opts ...DueDateServiceOption,
) *DueDateService {
	s := &DueDateService{
		dueDateRepo: dueDateRepo,
		quota:       quota,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateDueDateInput contains input for creating a due date
type CreateDueDateInput struct {
	Matter    string
	Title     string
	DueAt     time.Time
	CreatedBy uuid.UUID
}

// Create creates a due date for the firm, consuming one quota slot for the
// current period. A firm at its limit gets a QuotaExceededError carrying the
// usage figures.
func (s *DueDateService) Create(ctx context.Context, firmID uuid.UUID, input CreateDueDateInput) (*records.DueDate, error) {
	periodKey, limit, err := s.quota.CreationContext(ctx, firmID)
	if err != nil {
		return nil, err
	}

	dueDate, err := records.NewDueDate(firmID, input.Matter, input.Title, input.DueAt, input.CreatedBy)
	if err != nil {
		return nil, err
	}

	if _, err := s.dueDateRepo.CreateWithinQuota(ctx, dueDate, periodKey, limit); err != nil {
		if errors.Is(err, billing.ErrQuotaExhausted) {
			// The counter can sit above the limit after a plan downgrade;
			// report the real figure, not the threshold.
			used, readErr := s.quota.Usage(ctx, firmID, periodKey)
			if readErr != nil || used < limit {
				used = limit
			}
			return nil, &appbilling.QuotaExceededError{Used: used, Limit: limit}
		}
		return nil, err
	}

	s.invalidateStatus(ctx, firmID)
	return dueDate, nil
}

// Get returns one of the firm's due dates
func (s *DueDateService) Get(ctx context.Context, firmID, id uuid.UUID) (*records.DueDate, error) {
	return s.dueDateRepo.FindByID(ctx, firmID, id)
}

// List returns a page of the firm's due dates plus the total count
func (s *DueDateService) List(ctx context.Context, firmID uuid.UUID, page, pageSize int) ([]*records.DueDate, int64, error) {
	return s.dueDateRepo.FindByFirm(ctx, firmID, page, pageSize)
}

// UpdateStatus transitions a due date between open and done
func (s *DueDateService) UpdateStatus(ctx context.Context, firmID, id uuid.UUID, status records.DueDateStatus) (*records.DueDate, error) {
	dueDate, err := s.dueDateRepo.FindByID(ctx, firmID, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case records.DueDateStatusDone:
		err = dueDate.MarkDone()
	case records.DueDateStatusOpen:
		err = dueDate.Reopen()
	default:
		err = shared.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}

	if err := s.dueDateRepo.Save(ctx, dueDate); err != nil {
		return nil, err
	}
	return dueDate, nil
}

// Delete removes a due date and frees the quota slot of the period it was
// created in. Deleting a record from a past period frees a slot nobody can
// use anymore; that is intentional, current-period creations only ever
// consume current-period slots.
func (s *DueDateService) Delete(ctx context.Context, firmID, id uuid.UUID) error {
	dueDate, err := s.dueDateRepo.FindByID(ctx, firmID, id)
	if err != nil {
		return err
	}

	periodKey, err := s.quota.PeriodKeyAt(ctx, firmID, dueDate.CreatedAt)
	if err != nil {
		return err
	}

	if err := s.dueDateRepo.DeleteWithDecrement(ctx, firmID, id, periodKey); err != nil {
		return err
	}

	s.invalidateStatus(ctx, firmID)
	return nil
}

// invalidateStatus drops the firm's cached quota status. Failures degrade to
// a briefly stale display and are only logged.
func (s *DueDateService) invalidateStatus(ctx context.Context, firmID uuid.UUID) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, firmID); err != nil {
		s.logger.Warn("failed to invalidate quota status cache",
			zap.String("firm_id", firmID.String()),
			zap.Error(err),
		)
	}
}
