package billing

import (
	"context"
	"time"

	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/domain/identity"
	"github.com/firmdesk/backend/internal/domain/records"
	"github.com/firmdesk/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock implementations

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

type mockPlanRepository struct {
	mock.Mock
}

func (m *mockPlanRepository) FindByID(ctx context.Context, id string) (*billing.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Plan), args.Error(1)
}

func (m *mockPlanRepository) FindAll(ctx context.Context) ([]*billing.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Plan), args.Error(1)
}

func (m *mockPlanRepository) Seed(ctx context.Context, plans []*billing.Plan) error {
	args := m.Called(ctx, plans)
	return args.Error(0)
}

type mockUsageCounterRepository struct {
	mock.Mock
}

func (m *mockUsageCounterRepository) Read(ctx context.Context, firmID uuid.UUID, periodKey billing.PeriodKey) (int64, error) {
	args := m.Called(ctx, firmID, periodKey)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUsageCounterRepository) FindByFirm(ctx context.Context, firmID uuid.UUID) ([]*billing.UsageCounter, error) {
	args := m.Called(ctx, firmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.UsageCounter), args.Error(1)
}

func (m *mockUsageCounterRepository) SetCount(ctx context.Context, firmID uuid.UUID, periodKey billing.PeriodKey, count int64) error {
	args := m.Called(ctx, firmID, periodKey, count)
	return args.Error(0)
}

type mockDueDateRepository struct {
	mock.Mock
}

func (m *mockDueDateRepository) CreateWithinQuota(ctx context.Context, dueDate *records.DueDate, periodKey billing.PeriodKey, limit int64) (int64, error) {
	args := m.Called(ctx, dueDate, periodKey, limit)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDueDateRepository) DeleteWithDecrement(ctx context.Context, firmID, id uuid.UUID, periodKey billing.PeriodKey) error {
	args := m.Called(ctx, firmID, id, periodKey)
	return args.Error(0)
}

func (m *mockDueDateRepository) FindByID(ctx context.Context, firmID, id uuid.UUID) (*records.DueDate, error) {
	args := m.Called(ctx, firmID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*records.DueDate), args.Error(1)
}

func (m *mockDueDateRepository) FindByFirm(ctx context.Context, firmID uuid.UUID, page, pageSize int) ([]*records.DueDate, int64, error) {
	args := m.Called(ctx, firmID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*records.DueDate), args.Get(1).(int64), args.Error(2)
}

func (m *mockDueDateRepository) Save(ctx context.Context, dueDate *records.DueDate) error {
	args := m.Called(ctx, dueDate)
	return args.Error(0)
}

func (m *mockDueDateRepository) CountCreatedBetween(ctx context.Context, firmID uuid.UUID, start, end time.Time) (int64, error) {
	args := m.Called(ctx, firmID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

type mockStatusCache struct {
	mock.Mock
}

func (m *mockStatusCache) Get(ctx context.Context, firmID uuid.UUID) (*cache.CachedStatus, error) {
	args := m.Called(ctx, firmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cache.CachedStatus), args.Error(1)
}

func (m *mockStatusCache) Set(ctx context.Context, firmID uuid.UUID, status billing.QuotaStatus, fetchedAt time.Time) error {
	args := m.Called(ctx, firmID, status, fetchedAt)
	return args.Error(0)
}

func (m *mockStatusCache) Invalidate(ctx context.Context, firmID uuid.UUID) error {
	args := m.Called(ctx, firmID)
	return args.Error(0)
}

func (m *mockStatusCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
