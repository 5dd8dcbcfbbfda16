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

// UserModel is the GORM model for users
type UserModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirmID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Email       string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName string    `gorm:"type:varchar(255)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts the model to a domain entity
func (m *UserModel) ToEntity() *identity.User {
	return &identity.User{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		FirmID:      m.FirmID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
	}
}

// UserModelFromEntity creates a model from a domain entity
func UserModelFromEntity(e *identity.User) *UserModel {
	return &UserModel{
		ID:          e.ID,
		FirmID:      e.FirmID,
		Email:       e.Email,
		DisplayName: e.DisplayName,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// UserRepository implements the identity.UserRepository interface
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Save persists a user (insert or update)
func (r *UserRepository) Save(ctx context.Context, user *identity.User) error {
	model := UserModelFromEntity(user)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a user by its ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// FindByFirm returns all users belonging to a firm
func (r *UserRepository) FindByFirm(ctx context.Context, firmID uuid.UUID) ([]*identity.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).
		Where("firm_id = ?", firmID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]*identity.User, len(models))
	for i := range models {
		users[i] = models[i].ToEntity()
	}
	return users, nil
}
