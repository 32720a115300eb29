package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered customer or administrator.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	Salt         []byte
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the sanitized view of a user attached to authenticated requests.
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Identity returns the sanitized view of u.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Role: u.Role}
}
