package billing

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/domain/identity"
	"github.com/firmdesk/backend/internal/domain/records"
	"go.uber.org/zap"
)

// ReconcileService recomputes usage counters from the due date rows they
// summarize, correcting drift from operator edits or corrupted counters.
// Drift is corrected and logged, never surfaced to clients.
type ReconcileService struct {
	firmRepo    identity.FirmRepository
	dueDateRepo records.DueDateRepository
	counterRepo billing.UsageCounterRepository
	clock       clock.Clock
	logger      *zap.Logger
}

// ReconcileServiceOption is a functional option for configuring the service
type ReconcileServiceOption func(*ReconcileService)

// WithReconcileClock sets the clock used for period derivation, for tests
func WithReconcileClock(clk clock.Clock) ReconcileServiceOption {
	return func(s *ReconcileService) {
		s.clock = clk
	}
}

// WithReconcileLogger sets the logger for the service
func WithReconcileLogger(logger *zap.Logger) ReconcileServiceOption {
	return func(s *ReconcileService) {
		s.logger = logger
	}
}

// NewReconcileService creates a new ReconcileService
func NewReconcileService(
	firmRepo identity.FirmRepository,
	dueDateRepo records.DueDateRepository,
	counterRepo billing.UsageCounterRepository,
	opts ...ReconcileServiceOption,
) *ReconcileService {
	s := &ReconcileService{
		firmRepo:    firmRepo,
		dueDateRepo: dueDateRepo,
		counterRepo: counterRepo,
		clock:       clock.New(),
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ReconcileFirm recomputes the firm's counter for its current period and
// overwrites it when the stored value has drifted
func (s *ReconcileService) ReconcileFirm(ctx context.Context, firm *identity.Firm) error {
	periodKey, start, end := billing.PeriodFor(firm.BillingAnchorDay, s.clock.Now())

	actual, err := s.dueDateRepo.CountCreatedBetween(ctx, firm.ID, start, end)
	if err != nil {
		return err
	}

	stored, err := s.counterRepo.Read(ctx, firm.ID, periodKey)
	if err != nil {
		return err
	}

	if stored == actual {
		return nil
	}

	s.logger.Warn("usage counter drift detected",
		zap.String("firm_id", firm.ID.String()),
		zap.String("period", periodKey.String()),
		zap.Int64("stored", stored),
		zap.Int64("actual", actual),
	)

	return s.counterRepo.SetCount(ctx, firm.ID, periodKey, actual)
}

// ReconcileAll reconciles every active firm. Per-firm failures are logged
// and do not stop the sweep.
func (s *ReconcileService) ReconcileAll(ctx context.Context) error {
	firms, err := s.firmRepo.FindActive(ctx)
	if err != nil {
		return err
	}

	for _, firm := range firms {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.ReconcileFirm(ctx, firm); err != nil {
			s.logger.Error("failed to reconcile firm usage",
				zap.String("firm_id", firm.ID.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}
