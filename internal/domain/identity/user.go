package identity

import (
	"strings"

	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// User is a plain member record of a firm. Authentication lives with the
// external identity provider; the backend only trusts the (userID, firmID)
// pair carried by a validated session token.
type User struct {
	shared.BaseEntity
	FirmID      uuid.UUID
	Email       string
	DisplayName string
}

// NewUser creates a new user belonging to a firm
func NewUser(firmID uuid.UUID, email, displayName string) (*User, error) {
	if firmID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FIRM", "Firm ID cannot be empty")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}

	return &User{
		BaseEntity:  shared.NewBaseEntity(),
		FirmID:      firmID,
		Email:       email,
		DisplayName: displayName,
	}, nil
}

// ProvisionUser materializes a member record under the ID the external
// identity provider assigned. Used when a validated token arrives for a user
// this backend has not seen before.
func ProvisionUser(id, firmID uuid.UUID, email, displayName string) (*User, error) {
	if id == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	user, err := NewUser(firmID, email, displayName)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return user, nil
}
