// Package auth issues and verifies bearer tokens.
//
// Locally issued tokens are HS256 JWTs whose subject is the user id.
// Optionally, tokens from an external OpenID Connect provider are accepted
// and reported as external identities so the caller can provision a user.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the claims carried by locally issued tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the authenticated principal of a request.
// Subject is the local user id unless External is true, in which case it is
// the subject assigned by the external provider.
type Identity struct {
	Subject  string `json:"sub"`
	Email    string `json:"email"`
	External bool   `json:"external"`
}

// Token is the response body returned after registration or login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Verifier resolves a raw bearer token to an identity.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*Identity, error)
}

// Authenticator issues local tokens and verifies local and external ones.
type Authenticator struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	external *oidc.IDTokenVerifier
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an Authenticator. When OIDC is configured, the external key set
// is taken from OIDCJWKSURL if present, otherwise discovered from the issuer.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (*Authenticator, error) {
	a := &Authenticator{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTLDuration(),
		logger: logger.With("system", "auth"),
		now:    time.Now,
	}

	if !cfg.OIDCEnabled() {
		return a, nil
	}

	oidcCfg := &oidc.Config{
		ClientID:          cfg.OIDCClientID,
		SkipClientIDCheck: cfg.OIDCClientID == "",
	}

	if cfg.OIDCJWKSURL != "" {
		keys := oidc.NewRemoteKeySet(ctx, cfg.OIDCJWKSURL)
		a.external = oidc.NewVerifier(cfg.OIDCIssuer, keys, oidcCfg)
	} else {
		provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
		if err != nil {
			return nil, fmt.Errorf("discover oidc provider: %w", err)
		}
		a.external = provider.Verifier(oidcCfg)
	}

	a.logger.Info("external identity provider enabled", "issuer", cfg.OIDCIssuer)
	return a, nil
}

// Issue signs a token for the given user.
func (a *Authenticator) Issue(userID, email string) (*Token, error) {
	now := a.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int64(a.ttl.Seconds()),
	}, nil
}

// Verify checks a local token first and falls back to the external provider.
func (a *Authenticator) Verify(ctx context.Context, raw string) (*Identity, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}

	id, localErr := a.verifyLocal(raw)
	if localErr == nil {
		return id, nil
	}

	if a.external == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, localErr)
	}

	id, err := a.verifyExternal(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return id, nil
}

func (a *Authenticator) verifyLocal(raw string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		raw,
		&Claims{},
		func(t *jwt.Token) (any, error) {
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &Identity{Subject: claims.Subject, Email: claims.Email}, nil
}

func (a *Authenticator) verifyExternal(ctx context.Context, raw string) (*Identity, error) {
	idToken, err := a.external.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("external token has no email claim")
	}

	return &Identity{Subject: idToken.Subject, Email: claims.Email, External: true}, nil
}
