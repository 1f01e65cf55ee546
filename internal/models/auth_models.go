package models

import "time"

// User represents an employee account.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username" db:"username"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	RealName       *string   `json:"real_name,omitempty" db:"real_name"`
	Email          *string   `json:"email,omitempty" db:"email"`
	OrganizationID *int64    `json:"organization_id,omitempty" db:"organization_id"`
	PositionID     *int64    `json:"position_id,omitempty" db:"position_id"`
	RoleID         *int64    `json:"role_id,omitempty" db:"role_id"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
	Role           *Role     `json:"role,omitempty"`
}

// Role represents a user role
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name" db:"name"`
}

// RoleName returns the role name used in token claims.
func (u *User) RoleName() string {
	if u.Role != nil && u.Role.Name != "" {
		return u.Role.Name
	}
	return "Staff"
}
