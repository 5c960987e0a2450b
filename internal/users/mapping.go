package users

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/coderman400/AIArchitect/pkg/query"
	"github.com/coderman400/AIArchitect/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "users", "u").
	Project("id", "ID").
	Project("email", "Email").
	Project("password_hash IS NULL", "External").
	Project("created_at", "CreatedAt")

const returning = "RETURNING id, email, password_hash IS NULL, created_at"

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(&u.ID, &u.Email, &u.External, &u.CreatedAt)
	return u, err
}

// NormalizeEmail validates and lowercases an email address.
func NormalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, raw)
	}
	return strings.ToLower(addr.Address), nil
}
