package dto

import (
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// SetupRequest provisions the first administrator.
type SetupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SetupStatusResponse reports whether first-run setup is still open.
type SetupStatusResponse struct {
	NeedsSetup bool `json:"needs_setup"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserResponse is the public view of a principal.
type UserResponse struct {
	ID                  string          `json:"id"`
	Email               string          `json:"email"`
	FirstName           string          `json:"first_name"`
	LastName            string          `json:"last_name"`
	Role                domain.UserRole `json:"role"`
	Phone               *string         `json:"phone"`
	Active              bool            `json:"active"`
	SuperAdmin          bool            `json:"super_admin"`
	ForcePasswordChange bool            `json:"force_password_change"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Role:                u.Role,
		Phone:               u.Phone,
		Active:              u.Active,
		SuperAdmin:          u.SuperAdmin,
		ForcePasswordChange: u.ForcePasswordChange,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}
