package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/firmdesk/backend/internal/domain/identity"
	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FirmModel is the GORM model for firms
type FirmModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"type:varchar(255);not null"`
	PlanID           string    `gorm:"type:varchar(50);not null;index"`
	BillingAnchorDay int       `gorm:"not null;default:1"`
	Status           string    `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model
func (FirmModel) TableName() string {
	return "firms"
}

// ToEntity converts the model to a domain entity
func (m *FirmModel) ToEntity() *identity.Firm {
	return &identity.Firm{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Name:             m.Name,
		PlanID:           m.PlanID,
		BillingAnchorDay: m.BillingAnchorDay,
		Status:           identity.FirmStatus(m.Status),
	}
}

// FirmModelFromEntity creates a model from a domain entity
func FirmModelFromEntity(e *identity.Firm) *FirmModel {
	return &FirmModel{
		ID:               e.ID,
		Name:             e.Name,
		PlanID:           e.PlanID,
		BillingAnchorDay: e.BillingAnchorDay,
		Status:           string(e.Status),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// FirmRepository implements the identity.FirmRepository interface
type FirmRepository struct {
	db *gorm.DB
}

// NewFirmRepository creates a new firm repository
func NewFirmRepository(db *gorm.DB) *FirmRepository {
	return &FirmRepository{db: db}
}

// Save persists a firm (insert or update)
func (r *FirmRepository) Save(ctx context.Context, firm *identity.Firm) error {
	model := FirmModelFromEntity(firm)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a firm by its ID
func (r *FirmRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Firm, error) {
	var model FirmModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// FindActive returns all active firms
func (r *FirmRepository) FindActive(ctx context.Context) ([]*identity.Firm, error) {
	var models []FirmModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(identity.FirmStatusActive)).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	firms := make([]*identity.Firm, len(models))
	for i := range models {
		firms[i] = models[i].ToEntity()
	}
	return firms, nil
}
