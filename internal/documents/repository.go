package documents

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

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

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	owner uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals(ownerColumn, owner).
		WhereSearch(page.Search, "Filename", "ContentType")

	filters.Apply(qb)

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, owner, id uuid.UUID) (*Document, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("ID", id).
		WhereEquals(ownerColumn, owner).
		BuildSingleOrNull()

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Download(ctx context.Context, owner, id uuid.UUID) (*Document, io.ReadCloser, error) {
	doc, err := r.Find(ctx, owner, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := r.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download document %s: %w", id, err)
	}
	return doc, body, nil
}

func (r *repo) ByProject(ctx context.Context, projectID uuid.UUID) ([]Document, error) {
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "UploadedAt"}).
		WhereEquals("ProjectID", projectID).
		Build()

	docs, err := repository.QueryMany(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query project documents: %w", err)
	}
	return docs, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	if len(cmd.Data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidFile, cmd.Filename)
	}

	id := uuid.New()
	key := StorageKey(cmd.ProjectID, id, cmd.Filename)

	pageCount := cmd.PageCount
	if pageCount == nil {
		pageCount = extractPDFPageCount(r.logger, cmd.Data, cmd.ContentType)
	}

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := `
		INSERT INTO documents(id, project_id, filename, content_type, size_bytes, page_count, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		` + returning

	insertArgs := []any{
		id,
		cmd.ProjectID,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		pageCount,
		key,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		if repository.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProject, cmd.ProjectID)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", d.ID, "project", d.ProjectID, "filename", d.Filename)
	return &d, nil
}

// Delete removes the row in one owner-scoped statement and then the blob
// it pointed at. A blob that outlives its row is logged, not returned.
func (r *repo) Delete(ctx context.Context, owner, id uuid.UUID) error {
	const q = `
		DELETE FROM documents d USING projects p
		WHERE d.project_id = p.id AND d.id = $1 AND p.user_id = $2
		RETURNING d.storage_key`

	var key string
	if err := r.db.QueryRowContext(ctx, q, id, owner).Scan(&key); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("blob delete failed after row delete", "key", key, "error", err)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

// StorageKey builds the blob key for a document:
// projects/<project_id>/<document_id>/<filename>.
func StorageKey(projectID, id uuid.UUID, filename string) string {
	return fmt.Sprintf("projects/%s/%s/%s", projectID, id, sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}

func extractPDFPageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if contentType != "application/pdf" {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}
