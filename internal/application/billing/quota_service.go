package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/domain/identity"
	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrFirmSuspended is returned when a suspended firm tries to create records
var ErrFirmSuspended = shared.NewDomainError("FIRM_SUSPENDED", "Firm is suspended and cannot create records")

// QuotaExceededError carries the usage figures behind a denied creation
type QuotaExceededError struct {
	Used  int64
	Limit int64
}

// Error implements the error interface
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("due date quota exceeded: %d of %d used this period", e.Used, e.Limit)
}

// Unwrap lets callers match the underlying domain error
func (e *QuotaExceededError) Unwrap() error {
	return billing.ErrQuotaExhausted
}

// QuotaService answers whether a firm may create records and projects its
// current usage into a display status
type QuotaService struct {
	firmRepo    identity.FirmRepository
	planRepo    billing.PlanRepository
	counterRepo billing.UsageCounterRepository
	clock       clock.Clock
}

// QuotaServiceOption is a functional option for configuring the service
type QuotaServiceOption func(*QuotaService)

// WithQuotaClock sets the clock used for period derivation, for tests
func WithQuotaClock(clk clock.Clock) QuotaServiceOption {
	return func(s *QuotaService) {
		s.clock = clk
	}
}

// NewQuotaService creates a new QuotaService
func NewQuotaService(
	firmRepo identity.FirmRepository,
	planRepo billing.PlanRepository,
	counterRepo billing.UsageCounterRepository,
	opts ...QuotaServiceOption,
) *QuotaService {
	s := &QuotaService{
		firmRepo:    firmRepo,
		planRepo:    planRepo,
		counterRepo: counterRepo,
		clock:       clock.New(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreationContext returns the period key and plan limit that govern a new
// record for the firm right now. Suspended firms may not create records.
func (s *QuotaService) CreationContext(ctx context.Context, firmID uuid.UUID) (billing.PeriodKey, int64, error) {
	firm, err := s.firmRepo.FindByID(ctx, firmID)
	if err != nil {
		return "", 0, err
	}
	if !firm.IsActive() {
		return "", 0, ErrFirmSuspended
	}

	plan, err := s.planRepo.FindByID(ctx, firm.PlanID)
	if err != nil {
		return "", 0, err
	}

	periodKey := billing.PeriodKeyFor(firm.BillingAnchorDay, s.clock.Now())
	return periodKey, plan.DueDateLimit, nil
}

// PeriodKeyAt returns the firm's period key for an arbitrary instant. Used
// to find which counter a historical record belongs to.
func (s *QuotaService) PeriodKeyAt(ctx context.Context, firmID uuid.UUID, at time.Time) (billing.PeriodKey, error) {
	firm, err := s.firmRepo.FindByID(ctx, firmID)
	if err != nil {
		return "", err
	}
	return billing.PeriodKeyFor(firm.BillingAnchorDay, at), nil
}

// Usage returns the firm's recorded usage count for the given period
func (s *QuotaService) Usage(ctx context.Context, firmID uuid.UUID, periodKey billing.PeriodKey) (int64, error) {
	return s.counterRepo.Read(ctx, firmID, periodKey)
}

// Check decides whether the firm may create one more record in the current
// period. The answer is advisory; the storage layer re-checks atomically at
// creation time.
func (s *QuotaService) Check(ctx context.Context, firmID uuid.UUID) (billing.Decision, error) {
	periodKey, limit, err := s.CreationContext(ctx, firmID)
	if err != nil {
		return billing.Decision{}, err
	}

	used, err := s.counterRepo.Read(ctx, firmID, periodKey)
	if err != nil {
		return billing.Decision{}, err
	}

	return billing.Check(used, limit), nil
}

// Status projects the firm's current usage into its display status
func (s *QuotaService) Status(ctx context.Context, firmID uuid.UUID) (billing.QuotaStatus, error) {
	firm, err := s.firmRepo.FindByID(ctx, firmID)
	if err != nil {
		return billing.QuotaStatus{}, err
	}

	plan, err := s.planRepo.FindByID(ctx, firm.PlanID)
	if err != nil {
		return billing.QuotaStatus{}, err
	}

	periodKey := billing.PeriodKeyFor(firm.BillingAnchorDay, s.clock.Now())
	used, err := s.counterRepo.Read(ctx, firmID, periodKey)
	if err != nil {
		return billing.QuotaStatus{}, err
	}

	return billing.StatusFor(used, plan.DueDateLimit), nil
}
