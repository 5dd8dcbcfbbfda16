package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/firmdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrConnectionUnavailable is returned when the registry could not establish
// or retrieve a database handle. The condition is retryable: the next Acquire
// call starts a fresh connection attempt.
var ErrConnectionUnavailable = errors.New("database connection unavailable")

// OpenFunc opens one physical database connection. Injectable for tests.
type OpenFunc func(cfg *config.DatabaseConfig) (*Database, error)

// connectAttempt is one in-flight physical connection attempt. All callers
// that arrive while it is pending block on done and share its outcome.
type connectAttempt struct {
	done chan struct{}
	db   *Database
	err  error
}

// ConnectionRegistry is the process-wide holder of the shared database handle.
// The handle is created lazily on first Acquire; concurrent first calls are
// coalesced into a single physical connection attempt, and every waiter
// receives the same handle or the same error. A failed attempt clears the
// in-flight marker so a later call retries from scratch. This is the only
// component in the process that owns mutable global connection state;
// everything else receives the handle by explicit passing.
type ConnectionRegistry struct {
	cfg    *config.DatabaseConfig
	open   OpenFunc
	logger *zap.Logger

	mu      sync.Mutex
	db      *Database
	attempt *connectAttempt
}

// RegistryOption configures a ConnectionRegistry
type RegistryOption func(*ConnectionRegistry)

// WithOpenFunc overrides how physical connections are opened
func WithOpenFunc(open OpenFunc) RegistryOption {
	return func(r *ConnectionRegistry) {
		r.open = open
	}
}

// WithRegistryLogger sets the logger
func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(r *ConnectionRegistry) {
		r.logger = logger
	}
}

// NewConnectionRegistry creates a registry for the given database configuration
func NewConnectionRegistry(cfg *config.DatabaseConfig, opts ...RegistryOption) *ConnectionRegistry {
	r := &ConnectionRegistry{
		cfg:    cfg,
		open:   NewDatabase,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire returns the shared database handle, establishing it on first use.
// Safe for concurrent use. The wait is bounded by ctx; a caller timing out
// does not cancel the underlying attempt, whose outcome stays available to
// later callers.
func (r *ConnectionRegistry) Acquire(ctx context.Context) (*Database, error) {
	r.mu.Lock()
	if r.db != nil {
		db := r.db
		r.mu.Unlock()
		return db, nil
	}

	if r.attempt == nil {
		a := &connectAttempt{done: make(chan struct{})}
		r.attempt = a
		go r.connect(a)
	}
	a := r.attempt
	r.mu.Unlock()

	select {
	case <-a.done:
		if a.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnectionUnavailable, a.err)
		}
		return a.db, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrConnectionUnavailable, ctx.Err())
	}
}

// connect runs one physical connection attempt and publishes its outcome.
// The in-flight marker is cleared in both outcomes; on success the handle is
// cached so the marker is never needed again, on failure the next Acquire
// starts over.
func (r *ConnectionRegistry) connect(a *connectAttempt) {
	db, err := r.open(r.cfg)

	r.mu.Lock()
	if err == nil {
		r.db = db
	}
	r.attempt = nil
	r.mu.Unlock()

	a.db = db
	a.err = err
	close(a.done)

	if err != nil {
		r.logger.Error("Database connection attempt failed", zap.Error(err))
	} else {
		r.logger.Info("Database connection established",
			zap.String("host", r.cfg.Host),
			zap.String("dbname", r.cfg.DBName))
	}
}

// Invalidate drops the cached handle if it is the given one, forcing the next
// Acquire to reconnect. Used when an established handle reports a fatal fault
// (for example a failed ping). Passing a handle that is no longer current is
// a no-op, so concurrent invalidations after a single fault are safe.
func (r *ConnectionRegistry) Invalidate(db *Database) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == db {
		r.db = nil
		r.logger.Warn("Cached database handle invalidated")
	}
}

// Established reports whether a handle is currently cached, without blocking
// on any in-flight attempt.
func (r *ConnectionRegistry) Established() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db != nil
}

// Close tears down the cached handle if one exists
func (r *ConnectionRegistry) Close() error {
	r.mu.Lock()
	db := r.db
	r.db = nil
	r.mu.Unlock()

	if db == nil {
		return nil
	}
	return db.Close()
}
