package dto

import (
	"github.com/firmdesk/backend/internal/domain/identity"
)

// UserResponse represents a firm member in API responses
type UserResponse struct {
	ID          string `json:"id"`
	FirmID      string `json:"firm_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	TimestampResponse
}

// NewUserResponse converts a user entity to a response DTO
func NewUserResponse(user *identity.User) UserResponse {
	return UserResponse{
		ID:          user.ID.String(),
		FirmID:      user.FirmID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TimestampResponse: TimestampResponse{
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		},
	}
}

// NewUserListResponse converts a list of users
func NewUserListResponse(users []*identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, user := range users {
		out[i] = NewUserResponse(user)
	}
	return out
}
