package documents

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/coderman400/AIArchitect/pkg/pagination"
)

// System defines the public contract for document domain operations.
// Owner-scoped operations only see documents of projects the owner holds.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		owner uuid.UUID,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, owner, id uuid.UUID) (*Document, error)

	// Download returns the document and a stream of its content. The
	// caller must close the reader.
	Download(ctx context.Context, owner, id uuid.UUID) (*Document, io.ReadCloser, error)

	Delete(ctx context.Context, owner, id uuid.UUID) error

	// Create uploads the file and registers it under cmd.ProjectID. The
	// caller is responsible for having authorized access to the project.
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)

	// ByProject returns every document of a project, oldest first.
	ByProject(ctx context.Context, projectID uuid.UUID) ([]Document, error)
}
