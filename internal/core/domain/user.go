package domain

import (
	"strings"
	"time"
)

// Role is the single role tag carried by an account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleCleaner  Role = "cleaner"
)

// NormalizeRole maps a client-supplied role hint onto the closed role set.
// Anything other than "cleaner" collapses to customer.
func NormalizeRole(hint string) Role {
	if strings.EqualFold(strings.TrimSpace(hint), string(RoleCleaner)) {
		return RoleCleaner
	}
	return RoleCustomer
}

// NormalizeEmail returns the key used for uniqueness checks and lookups.
// The email itself is always stored as provided.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the non-secret projection of a User returned to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Public strips everything but the identifier, email and role.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Role: u.Role}
}
