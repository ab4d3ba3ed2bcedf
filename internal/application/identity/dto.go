package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/identity"
	"github.com/smartpos/backend/internal/infrastructure/auth"
)

// RegisterInput carries a registration request. The first registration of a
// shop bootstraps both the shop and its owner account.
type RegisterInput struct {
	Username    string
	Password    string
	Email       string
	DisplayName string
}

// LoginInput carries a login request
type LoginInput struct {
	Username string
	Password string
}

// ChangePasswordInput carries a password change request
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// UserResponse is the API representation of a user account
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuthResponse is returned on successful registration, login, and refresh
type AuthResponse struct {
	User   *UserResponse   `json:"user,omitempty"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// ToUserResponse maps a user to its API representation
func ToUserResponse(user *identity.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
