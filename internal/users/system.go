package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/coderman400/AIArchitect/pkg/auth"
)

// System defines the public contract for user domain operations.
type System interface {
	Handler() *Handler

	Register(ctx context.Context, cmd Credentials) (*auth.Token, error)
	Login(ctx context.Context, cmd Credentials) (*auth.Token, error)
	Find(ctx context.Context, id uuid.UUID) (*User, error)

	// Provision returns the user registered under email, creating a
	// passwordless account on first sight.
	Provision(ctx context.Context, email string) (*User, error)
}

// Issuer signs access tokens for users.
type Issuer interface {
	Issue(userID, email string) (*auth.Token, error)
}
