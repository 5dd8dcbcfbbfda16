package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/domain/records"
	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DueDateModel is the GORM model for due dates
type DueDateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirmID    uuid.UUID `gorm:"type:uuid;not null;index:idx_due_dates_firm_created"`
	Matter    string    `gorm:"type:varchar(255);not null"`
	Title     string    `gorm:"type:varchar(255);not null"`
	DueAt     time.Time `gorm:"not null;index"`
	Status    string    `gorm:"type:varchar(20);not null;default:'OPEN'"`
	CreatedBy uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_due_dates_firm_created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model
func (DueDateModel) TableName() string {
	return "due_dates"
}

// ToEntity converts the model to a domain entity
func (m *DueDateModel) ToEntity() *records.DueDate {
	return &records.DueDate{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		FirmID:    m.FirmID,
		Matter:    m.Matter,
		Title:     m.Title,
		DueAt:     m.DueAt,
		Status:    records.DueDateStatus(m.Status),
		CreatedBy: m.CreatedBy,
	}
}

// DueDateModelFromEntity creates a model from a domain entity
func DueDateModelFromEntity(e *records.DueDate) *DueDateModel {
	return &DueDateModel{
		ID:        e.ID,
		FirmID:    e.FirmID,
		Matter:    e.Matter,
		Title:     e.Title,
		DueAt:     e.DueAt,
		Status:    string(e.Status),
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// DueDateRepository implements the records.DueDateRepository interface
type DueDateRepository struct {
	db *gorm.DB
}

// NewDueDateRepository creates a new due date repository
func NewDueDateRepository(db *gorm.DB) *DueDateRepository {
	return &DueDateRepository{db: db}
}

// CreateWithinQuota inserts the due date and increments the firm's usage
// counter in one transaction. When no slot is left the whole transaction
// rolls back and billing.ErrQuotaExhausted is returned, so a record row can
// never exist without its counter increment or vice versa.
func (r *DueDateRepository) CreateWithinQuota(ctx context.Context, dueDate *records.DueDate, periodKey billing.PeriodKey, limit int64) (int64, error) {
	var newCount int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := incrementCounterWithinLimit(tx, dueDate.FirmID, periodKey, limit)
		if err != nil {
			return err
		}
		newCount = count

		return tx.Create(DueDateModelFromEntity(dueDate)).Error
	})
	if err != nil {
		return 0, err
	}

	return newCount, nil
}

// DeleteWithDecrement removes the due date and applies the compensating
// decrement to the counter of the period the record was created in.
func (r *DueDateRepository) DeleteWithDecrement(ctx context.Context, firmID, id uuid.UUID, periodKey billing.PeriodKey) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("firm_id = ? AND id = ?", firmID, id).Delete(&DueDateModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		return decrementCounter(tx, firmID, periodKey)
	})
}

// FindByID finds a due date by ID, scoped to a firm
func (r *DueDateRepository) FindByID(ctx context.Context, firmID, id uuid.UUID) (*records.DueDate, error) {
	var model DueDateModel
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", firmID, id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// FindByFirm returns a page of the firm's due dates (soonest deadline first)
// plus the total count
func (r *DueDateRepository) FindByFirm(ctx context.Context, firmID uuid.UUID, page, pageSize int) ([]*records.DueDate, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := r.db.WithContext(ctx).Model(&DueDateModel{}).Where("firm_id = ?", firmID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []DueDateModel
	if err := query.
		Order("due_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}

	dueDates := make([]*records.DueDate, len(models))
	for i := range models {
		dueDates[i] = models[i].ToEntity()
	}
	return dueDates, total, nil
}

// Save persists status changes to an existing due date
func (r *DueDateRepository) Save(ctx context.Context, dueDate *records.DueDate) error {
	res := r.db.WithContext(ctx).
		Model(&DueDateModel{}).
		Where("firm_id = ? AND id = ?", dueDate.FirmID, dueDate.ID).
		Updates(map[string]any{
			"matter":     dueDate.Matter,
			"title":      dueDate.Title,
			"due_at":     dueDate.DueAt,
			"status":     string(dueDate.Status),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountCreatedBetween counts the firm's due dates created in [start, end).
// This is the source of truth reconciliation recomputes counters from.
func (r *DueDateRepository) CountCreatedBetween(ctx context.Context, firmID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&DueDateModel{}).
		Where("firm_id = ? AND created_at >= ? AND created_at < ?", firmID, start, end).
		Count(&count).Error
	return count, err
}
