package identity

import (
	"context"
	"errors"

	"github.com/firmdesk/backend/internal/domain/identity"
	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService resolves the member behind a validated session token.
// Accounts live with the external identity provider; the local user record
// is provisioned on first sight from the token claims.
type SessionService struct {
	userRepo identity.UserRepository
	firmRepo identity.FirmRepository
	logger   *zap.Logger
}

// SessionServiceOption is a functional option for configuring the service
type SessionServiceOption func(*SessionService)

// WithSessionLogger sets the logger for the service
func WithSessionLogger(logger *zap.Logger) SessionServiceOption {
	return func(s *SessionService) {
		s.logger = logger
	}
}

// NewSessionService creates a new SessionService
func NewSessionService(
	userRepo identity.UserRepository,
	firmRepo identity.FirmRepository,
	opts ...SessionServiceOption,
) *SessionService {
	s := &SessionService{
		userRepo: userRepo,
		firmRepo: firmRepo,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CurrentUser returns the requesting member's record, creating it from the
// token claims when the user is not known yet. A user whose record belongs
// to a different firm is treated as unknown.
func (s *SessionService) CurrentUser(ctx context.Context, firmID, userID uuid.UUID, email string) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err == nil {
		if user.FirmID != firmID {
			return nil, shared.ErrNotFound
		}
		return user, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if _, err := s.firmRepo.FindByID(ctx, firmID); err != nil {
		return nil, err
	}

	user, err = identity.ProvisionUser(userID, firmID, email, "")
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("provisioned user from session token",
		zap.String("user_id", userID.String()),
		zap.String("firm_id", firmID.String()),
	)
	return user, nil
}

// Members returns all users belonging to the firm
func (s *SessionService) Members(ctx context.Context, firmID uuid.UUID) ([]*identity.User, error) {
	return s.userRepo.FindByFirm(ctx, firmID)
}
