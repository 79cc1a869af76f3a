package domain

import "time"

// UserRole enumerates the four principal roles.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSupervisor UserRole = "supervisore"
	RoleTechnician UserRole = "tecnico"
	RoleClient     UserRole = "cliente"
)

// ValidRole reports whether r is a known role.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleTechnician, RoleClient:
		return true
	}
	return false
}

// User is the domain model for every authenticated principal.
type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	FirstName           string
	LastName            string
	Role                UserRole
	Phone               *string
	Active              bool
	SuperAdmin          bool
	ForcePasswordChange bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// FullName joins first and last name for display and email templates.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
