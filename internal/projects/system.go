package projects

import (
	"context"

	"github.com/google/uuid"

	"github.com/coderman400/AIArchitect/pkg/pagination"
)

// System defines the public contract for project domain operations.
// Every operation is scoped to the owning user.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		owner uuid.UUID,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Project], error)

	Flows(ctx context.Context, owner uuid.UUID) ([]Flow, error)
	Find(ctx context.Context, owner, id uuid.UUID) (*Project, error)
	Create(ctx context.Context, owner uuid.UUID, cmd CreateCommand) (*Project, error)
	Update(ctx context.Context, owner, id uuid.UUID, cmd UpdateCommand) (*Project, error)

	// Delete removes the project together with its org view, documents,
	// and stored blobs.
	Delete(ctx context.Context, owner, id uuid.UUID) error
}
