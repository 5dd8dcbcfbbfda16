package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// UsageReconciler recomputes usage counters from stored records
type UsageReconciler interface {
	ReconcileAll(ctx context.Context) error
}

// ReconcileSchedulerConfig holds configuration for the reconcile scheduler
type ReconcileSchedulerConfig struct {
	// Interval is how often a full reconciliation sweep runs
	Interval time.Duration

	// Timeout bounds one sweep
	Timeout time.Duration
}

// DefaultReconcileSchedulerConfig returns default scheduler configuration
func DefaultReconcileSchedulerConfig() ReconcileSchedulerConfig {
	return ReconcileSchedulerConfig{
		Interval: time.Hour,
		Timeout:  5 * time.Minute,
	}
}

// ReconcileScheduler periodically sweeps usage counters back in line with
// the records they summarize
type ReconcileScheduler struct {
	config     ReconcileSchedulerConfig
	reconciler UsageReconciler
	logger     *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewReconcileScheduler creates a new reconcile scheduler
func NewReconcileScheduler(
	config ReconcileSchedulerConfig,
	reconciler UsageReconciler,
	logger *zap.Logger,
) *ReconcileScheduler {
	if config.Interval <= 0 {
		config.Interval = DefaultReconcileSchedulerConfig().Interval
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultReconcileSchedulerConfig().Timeout
	}
	return &ReconcileScheduler{
		config:     config,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Start starts the periodic reconciliation loop
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Usage reconcile scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("timeout", s.config.Timeout),
	)

	return nil
}

// Stop stops the loop and waits for an in-flight sweep to finish
func (s *ReconcileScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Usage reconcile scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop runs a sweep every interval until the context is cancelled
func (s *ReconcileScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

// runSweep executes one bounded reconciliation sweep
func (s *ReconcileScheduler) runSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	if err := s.reconciler.ReconcileAll(sweepCtx); err != nil {
		s.logger.Error("Usage reconciliation sweep failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("Usage reconciliation sweep completed",
		zap.Duration("elapsed", time.Since(start)),
	)
}
