package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/firmdesk/backend/internal/domain/identity"
	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepository) FindByFirm(ctx context.Context, firmID uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, firmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.User), args.Error(1)
}

type mockFirmRepository struct {
	mock.Mock
}

func (m *mockFirmRepository) Save(ctx context.Context, firm *identity.Firm) error {
	args := m.Called(ctx, firm)
	return args.Error(0)
}

func (m *mockFirmRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Firm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Firm), args.Error(1)
}

func (m *mockFirmRepository) FindActive(ctx context.Context) ([]*identity.Firm, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Firm), args.Error(1)
}

func TestSessionService_CurrentUser(t *testing.T) {
	ctx := context.Background()

	newFirm := func(t *testing.T) *identity.Firm {
		t.Helper()
		firm, err := identity.NewFirm("Dewey & Howe LLP", "free", 1)
		require.NoError(t, err)
		return firm
	}

	t.Run("returns the known member", func(t *testing.T) {
		firm := newFirm(t)
		user, err := identity.NewUser(firm.ID, "jan@dewey.example", "Jan")
		require.NoError(t, err)

		users := new(mockUserRepository)
		firms := new(mockFirmRepository)
		users.On("FindByID", ctx, user.ID).Return(user, nil)

		svc := NewSessionService(users, firms)
		got, err := svc.CurrentUser(ctx, firm.ID, user.ID, "jan@dewey.example")
		require.NoError(t, err)
		assert.Same(t, user, got)
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("provisions an unknown member from the token claims", func(t *testing.T) {
		firm := newFirm(t)
		userID := uuid.New()

		users := new(mockUserRepository)
		firms := new(mockFirmRepository)
		users.On("FindByID", ctx, userID).Return(nil, shared.ErrNotFound)
		firms.On("FindByID", ctx, firm.ID).Return(firm, nil)
		users.On("Save", ctx, mock.Anything).Return(nil)

		svc := NewSessionService(users, firms)
		got, err := svc.CurrentUser(ctx, firm.ID, userID, "New.Hire@dewey.example")
		require.NoError(t, err)
		assert.Equal(t, userID, got.ID)
		assert.Equal(t, firm.ID, got.FirmID)
		assert.Equal(t, "new.hire@dewey.example", got.Email)

		users.AssertCalled(t, "Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.ID == userID && u.FirmID == firm.ID
		}))
	})

	t.Run("does not provision for an unknown firm", func(t *testing.T) {
		userID := uuid.New()
		firmID := uuid.New()

		users := new(mockUserRepository)
		firms := new(mockFirmRepository)
		users.On("FindByID", ctx, userID).Return(nil, shared.ErrNotFound)
		firms.On("FindByID", ctx, firmID).Return(nil, shared.ErrNotFound)

		svc := NewSessionService(users, firms)
		_, err := svc.CurrentUser(ctx, firmID, userID, "ghost@nowhere.example")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("treats a member of another firm as unknown", func(t *testing.T) {
		firm := newFirm(t)
		other := newFirm(t)
		user, err := identity.NewUser(other.ID, "jan@other.example", "Jan")
		require.NoError(t, err)

		users := new(mockUserRepository)
		firms := new(mockFirmRepository)
		users.On("FindByID", ctx, user.ID).Return(user, nil)

		svc := NewSessionService(users, firms)
		_, err = svc.CurrentUser(ctx, firm.ID, user.ID, "jan@other.example")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects claims without a usable email", func(t *testing.T) {
		firm := newFirm(t)
		userID := uuid.New()

		users := new(mockUserRepository)
		firms := new(mockFirmRepository)
		users.On("FindByID", ctx, userID).Return(nil, shared.ErrNotFound)
		firms.On("FindByID", ctx, firm.ID).Return(firm, nil)

		svc := NewSessionService(users, firms)
		_, err := svc.CurrentUser(ctx, firm.ID, userID, "not-an-address")
		require.Error(t, err)
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		firm := newFirm(t)
		userID := uuid.New()

		users := new(mockUserRepository)
		firms := new(mockFirmRepository)
		users.On("FindByID", ctx, userID).Return(nil, errors.New("connection reset"))

		svc := NewSessionService(users, firms)
		_, err := svc.CurrentUser(ctx, firm.ID, userID, "jan@dewey.example")
		require.Error(t, err)
		assert.NotErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSessionService_Members(t *testing.T) {
	ctx := context.Background()
	firmID := uuid.New()

	first, err := identity.NewUser(firmID, "a@dewey.example", "A")
	require.NoError(t, err)
	second, err := identity.NewUser(firmID, "b@dewey.example", "B")
	require.NoError(t, err)

	users := new(mockUserRepository)
	firms := new(mockFirmRepository)
	users.On("FindByFirm", ctx, firmID).Return([]*identity.User{first, second}, nil)

	svc := NewSessionService(users, firms)
	members, err := svc.Members(ctx, firmID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
