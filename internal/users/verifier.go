package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/coderman400/AIArchitect/pkg/auth"
)

// Verifier resolves verified tokens to local accounts. Identities from
// the external provider are provisioned by email so every request carries
// a local user ID as its subject. Local tokens must name an existing user.
type Verifier struct {
	tokens auth.Verifier
	users  System
}

// NewVerifier wraps tokens so verified identities map to users in sys.
func NewVerifier(tokens auth.Verifier, sys System) *Verifier {
	return &Verifier{tokens: tokens, users: sys}
}

// Verify implements auth.Verifier.
func (v *Verifier) Verify(ctx context.Context, raw string) (*auth.Identity, error) {
	id, err := v.tokens.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}

	if id.External {
		u, err := v.users.Provision(ctx, id.Email)
		if err != nil {
			return nil, fmt.Errorf("%w: provision %s: %w", auth.ErrInvalidToken, id.Email, err)
		}
		return &auth.Identity{Subject: u.ID.String(), Email: u.Email}, nil
	}

	userID, err := uuid.Parse(id.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject: %w", auth.ErrInvalidToken, err)
	}
	if _, err := v.users.Find(ctx, userID); err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrInvalidToken, err)
	}
	return id, nil
}
