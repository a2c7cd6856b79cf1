package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access, including contact inbox
	// and media management.
	RoleAdmin Role = "admin"
	// RoleEditor grants content management access.
	RoleEditor Role = "editor"
)

// User represents an authenticated CMS account.
type User struct {
	Document
	LastLoginAt  time.Time `json:"lastLoginAt,omitzero"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string    `json:"displayName,omitempty"`
	Role         Role      `json:"role"`
	IsRoot       bool      `json:"isRoot"`
}

// IsAdmin returns true if the user has administrative privileges.
// Root users are automatically admins, regardless of their role field.
func (u *User) IsAdmin() bool {
	return u.IsRoot || u.Role == RoleAdmin
}

// Name returns the best available name to display for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
