package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanModel is the GORM model for subscription plans
type PlanModel struct {
	ID           string    `gorm:"type:varchar(50);primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	DueDateLimit int64     `gorm:"not null;default:-1"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model
func (PlanModel) TableName() string {
	return "plans"
}

// ToEntity converts the model to a domain entity
func (m *PlanModel) ToEntity() *billing.Plan {
	return &billing.Plan{
		ID:           m.ID,
		Name:         m.Name,
		DueDateLimit: m.DueDateLimit,
	}
}

// PlanRepository implements the billing.PlanRepository interface
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// FindByID finds a plan by its ID
func (r *PlanRepository) FindByID(ctx context.Context, id string) (*billing.Plan, error) {
	var model PlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// FindAll returns all plans
func (r *PlanRepository) FindAll(ctx context.Context) ([]*billing.Plan, error) {
	var models []PlanModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	plans := make([]*billing.Plan, len(models))
	for i := range models {
		plans[i] = models[i].ToEntity()
	}
	return plans, nil
}

// Seed inserts the given plans if they do not exist yet. Existing rows are
// left untouched so operators can tune limits without the seed reverting them.
func (r *PlanRepository) Seed(ctx context.Context, plans []*billing.Plan) error {
	if len(plans) == 0 {
		return nil
	}

	models := make([]*PlanModel, len(plans))
	for i, p := range plans {
		models[i] = &PlanModel{
			ID:           p.ID,
			Name:         p.Name,
			DueDateLimit: p.DueDateLimit,
		}
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(models).Error
}
