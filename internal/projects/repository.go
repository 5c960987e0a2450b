package projects

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/coderman400/AIArchitect/pkg/pagination"
	"github.com/coderman400/AIArchitect/pkg/query"
	"github.com/coderman400/AIArchitect/pkg/repository"
	"github.com/coderman400/AIArchitect/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a project repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "projects"),
		pagination: pagination,
	}
}

// StoragePrefix returns the blob key prefix holding a project's files.
func StoragePrefix(id uuid.UUID) string {
	return fmt.Sprintf("projects/%s/", id)
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	owner uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Project], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", owner).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanProject)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return result, nil
}

func (r *repo) Flows(ctx context.Context, owner uuid.UUID) ([]Flow, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", owner).
		Build()

	projects, err := repository.QueryMany(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, fmt.Errorf("query flows: %w", err)
	}

	flows := make([]Flow, len(projects))
	for i, p := range projects {
		flows[i] = Flow{ProjectID: p.ID, Name: p.Name, Description: p.Description}
	}
	return flows, nil
}

func (r *repo) Find(ctx context.Context, owner, id uuid.UUID) (*Project, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("ID", id).
		WhereEquals("UserID", owner).
		BuildSingleOrNull()

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, owner uuid.UUID, cmd CreateCommand) (*Project, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	texts, err := encodeTexts(cmd.Texts)
	if err != nil {
		return nil, fmt.Errorf("encode texts: %w", err)
	}

	q := `
		INSERT INTO projects(user_id, name, description, texts)
		VALUES ($1, $2, $3, $4)
		` + returning

	args := []any{owner, name, cmd.Description, texts}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		return repository.QueryOne(ctx, tx, q, args, scanProject)
	})
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: unknown owner %s", ErrInvalidInput, owner)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("project created", "id", p.ID, "name", p.Name, "owner", owner)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, owner, id uuid.UUID, cmd UpdateCommand) (*Project, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	q := `
		UPDATE projects
		SET name = $1, description = $2, updated_at = now()
		WHERE id = $3 AND user_id = $4
		` + returning

	args := []any{name, cmd.Description, id, owner}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		return repository.QueryOne(ctx, tx, q, args, scanProject)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("project updated", "id", p.ID, "name", p.Name)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, owner, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM projects WHERE id = $1 AND user_id = $2",
			id, owner,
		)
		return struct{}{}, err
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	prefix := StoragePrefix(id)
	if _, err := r.storage.DeletePrefix(ctx, prefix); err != nil {
		r.logger.Warn("blob cleanup failed after project delete", "prefix", prefix, "error", err)
	}

	r.logger.Info("project deleted", "id", id)
	return nil
}
