// Package users implements account registration, login, and identity
// resolution for bearer tokens.
package users

import (
	"time"

	"github.com/google/uuid"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// User is a registered account. Accounts provisioned from an external
// identity provider have no password.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	External  bool      `json:"external"`
	CreatedAt time.Time `json:"created_at"`
}

// Credentials carries an email and password for registration or login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
