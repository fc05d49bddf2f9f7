package models

import "time"

// Staff roles.
const (
	RoleAdmin = "Admin"
	RoleStaff = "Staff"
)

// IsValidRole checks if the provided role name is known.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

// User is a staff account able to operate the tills and back office.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	FullName     *string   `json:"full_name,omitempty" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
