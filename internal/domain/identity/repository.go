package identity

import (
	"context"

	"github.com/google/uuid"
)

// FirmRepository defines the interface for firm persistence
type FirmRepository interface {
	// Save persists a firm (insert or update)
	Save(ctx context.Context, firm *Firm) error

	// FindByID finds a firm by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Firm, error)

	// FindActive returns all active firms
	FindActive(ctx context.Context) ([]*Firm, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Save persists a user (insert or update)
	Save(ctx context.Context, user *User) error

	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByFirm returns all users belonging to a firm
	FindByFirm(ctx context.Context, firmID uuid.UUID) ([]*User, error)
}
