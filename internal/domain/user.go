package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is one of the fixed admin panel roles
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleVendedor Role = "Vendedor"
	RoleCliente  Role = "Cliente"
)

// Roles lists every valid role
var Roles = []Role{RoleAdmin, RoleVendedor, RoleCliente}

// Valid reports whether r belongs to the closed role set
func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents an account in the auth store
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         Role      `json:"role" db:"role"`
	Company      string    `json:"company,omitempty" db:"company"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RefreshToken is a long-lived token used to mint new session tokens
type RefreshToken struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
	Revoked   bool      `db:"revoked"`
}

// Session is the decoded content of a session token
type Session struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Company string `json:"company,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// IsAdmin reports whether the session belongs to an administrator
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
