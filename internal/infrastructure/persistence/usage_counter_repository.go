package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UsageCounterModel is the GORM model for per-period usage counters
type UsageCounterModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirmID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usage_counters_firm_period"`
	PeriodKey string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_usage_counters_firm_period"`
	Count     int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model
func (UsageCounterModel) TableName() string {
	return "usage_counters"
}

// ToEntity converts the model to a domain entity
func (m *UsageCounterModel) ToEntity() *billing.UsageCounter {
	return &billing.UsageCounter{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		FirmID:    m.FirmID,
		PeriodKey: billing.PeriodKey(m.PeriodKey),
		Count:     m.Count,
	}
}

// UsageCounterRepository implements the billing.UsageCounterRepository interface
type UsageCounterRepository struct {
	db *gorm.DB
}

// NewUsageCounterRepository creates a new usage counter repository
func NewUsageCounterRepository(db *gorm.DB) *UsageCounterRepository {
	return &UsageCounterRepository{db: db}
}

// Read returns the current count for a firm and period (0 if absent)
func (r *UsageCounterRepository) Read(ctx context.Context, firmID uuid.UUID, periodKey billing.PeriodKey) (int64, error) {
	var model UsageCounterModel
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND period_key = ?", firmID, string(periodKey)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return model.Count, nil
}

// FindByFirm returns all historical counters for a firm, newest period first
func (r *UsageCounterRepository) FindByFirm(ctx context.Context, firmID uuid.UUID) ([]*billing.UsageCounter, error) {
	var models []UsageCounterModel
	if err := r.db.WithContext(ctx).
		Where("firm_id = ?", firmID).
		Order("period_key DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	counters := make([]*billing.UsageCounter, len(models))
	for i := range models {
		counters[i] = models[i].ToEntity()
	}
	return counters, nil
}

// SetCount overwrites the counter with an authoritative recomputed value,
// creating the row if it is missing. Only the reconciliation pass calls this.
func (r *UsageCounterRepository) SetCount(ctx context.Context, firmID uuid.UUID, periodKey billing.PeriodKey, count int64) error {
	if count < 0 {
		return shared.ErrInvalidInput
	}

	if err := ensureCounterRow(r.db.WithContext(ctx), firmID, periodKey); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&UsageCounterModel{}).
		Where("firm_id = ? AND period_key = ?", firmID, string(periodKey)).
		Updates(map[string]any{
			"count":      count,
			"updated_at": time.Now(),
		}).Error
}

// ensureCounterRow lazily creates the counter row for a firm and period.
// Concurrent callers race on the unique index; losing the race is fine.
func ensureCounterRow(tx *gorm.DB, firmID uuid.UUID, periodKey billing.PeriodKey) error {
	counter, err := billing.NewUsageCounter(firmID, periodKey)
	if err != nil {
		return err
	}

	model := &UsageCounterModel{
		ID:        counter.ID,
		FirmID:    counter.FirmID,
		PeriodKey: string(counter.PeriodKey),
		Count:     0,
		CreatedAt: counter.CreatedAt,
		UpdatedAt: counter.UpdatedAt,
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "firm_id"}, {Name: "period_key"}},
		DoNothing: true,
	}).Create(model).Error
}

// incrementCounterWithinLimit applies the conditional atomic increment that
// serializes concurrent creations per (firm, period). The UPDATE only matches
// while count < limit, so under row locking exactly one of two racing
// transactions can consume the last slot; the loser sees zero rows affected
// and reports billing.ErrQuotaExhausted. The unlimited sentinel increments
// unconditionally. Returns the new count.
func incrementCounterWithinLimit(tx *gorm.DB, firmID uuid.UUID, periodKey billing.PeriodKey, limit int64) (int64, error) {
	if limit != billing.UnlimitedLimit && limit < 0 {
		return 0, shared.ErrInvalidInput
	}

	if err := ensureCounterRow(tx, firmID, periodKey); err != nil {
		return 0, err
	}

	update := tx.Model(&UsageCounterModel{}).
		Where("firm_id = ? AND period_key = ?", firmID, string(periodKey))
	if limit != billing.UnlimitedLimit {
		update = update.Where("count < ?", limit)
	}

	res := update.Updates(map[string]any{
		"count":      gorm.Expr("count + 1"),
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, billing.ErrQuotaExhausted
	}

	var model UsageCounterModel
	if err := tx.Where("firm_id = ? AND period_key = ?", firmID, string(periodKey)).
		First(&model).Error; err != nil {
		return 0, err
	}
	return model.Count, nil
}

// decrementCounter applies the compensating decrement when a due date is
// deleted. The counter never goes below zero; deleting a record whose period
// counter was already reconciled down is not an error.
func decrementCounter(tx *gorm.DB, firmID uuid.UUID, periodKey billing.PeriodKey) error {
	return tx.Model(&UsageCounterModel{}).
		Where("firm_id = ? AND period_key = ? AND count > 0", firmID, string(periodKey)).
		Updates(map[string]any{
			"count":      gorm.Expr("count - 1"),
			"updated_at": time.Now(),
		}).Error
}
