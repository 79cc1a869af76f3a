package dto

import "github.com/re-fagiano/Project-feffoemaurizia/internal/domain"

// CreateUserRequest payload.
type CreateUserRequest struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      domain.UserRole `json:"role"`
	Phone     *string         `json:"phone"`
}

// UpdateUserRequest payload. Absent fields stay untouched.
type UpdateUserRequest struct {
	FirstName *string          `json:"first_name"`
	LastName  *string          `json:"last_name"`
	Role      *domain.UserRole `json:"role"`
	Phone     *string          `json:"phone"`
	Active    *bool            `json:"active"`
}

// TransferSuperAdminRequest payload.
type TransferSuperAdminRequest struct {
	TargetID string `json:"target_id"`
}
