package models

import (
	"time"
)

// User statuses toggled by administrators.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         string // "user", "admin"
	Status       string // "active", "disabled"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserFilter narrows admin user listings. Zero values mean "no filter".
// Query matches email or full name, case-insensitively.
type UserFilter struct {
	Query  string
	Role   string
	Status string
}
