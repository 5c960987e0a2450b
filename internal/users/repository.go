package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/coderman400/AIArchitect/pkg/auth"
	"github.com/coderman400/AIArchitect/pkg/query"
	"github.com/coderman400/AIArchitect/pkg/repository"
)

type repo struct {
	db     *sql.DB
	issuer Issuer
	logger *slog.Logger
}

// New creates a user repository implementing the System interface.
func New(db *sql.DB, issuer Issuer, logger *slog.Logger) System {
	return &repo{
		db:     db,
		issuer: issuer,
		logger: logger.With("system", "users"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Register(ctx context.Context, cmd Credentials) (*auth.Token, error) {
	email, err := NormalizeEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	if len(cmd.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	q := `
		INSERT INTO users(email, password_hash)
		VALUES ($1, $2)
		` + returning

	u, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (User, error) {
		return repository.QueryOne(ctx, tx, q, []any{email, string(hash)}, scanUser)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("user registered", "id", u.ID, "email", u.Email)
	return r.issuer.Issue(u.ID.String(), u.Email)
}

func (r *repo) Login(ctx context.Context, cmd Credentials) (*auth.Token, error) {
	email, err := NormalizeEmail(cmd.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	var (
		id   uuid.UUID
		hash sql.NullString
	)
	err = r.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM users WHERE email = $1`, email,
	).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !hash.Valid {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash.String), []byte(cmd.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	r.logger.Info("user logged in", "id", id)
	return r.issuer.Issue(id.String(), email)
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*User, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *repo) Provision(ctx context.Context, email string) (*User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	// The no-op update makes RETURNING yield the existing row on conflict.
	q := `
		INSERT INTO users(email)
		VALUES ($1)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		` + returning

	u, err := repository.QueryOne(ctx, r.db, q, []any{normalized}, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}
