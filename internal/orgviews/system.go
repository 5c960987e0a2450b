package orgviews

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for org view operations. Every
// operation is scoped to projects held by owner.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Generate creates a project from the uploaded material, runs the
	// generation pipeline, and stores the resulting trees.
	Generate(ctx context.Context, owner uuid.UUID, cmd GenerateCommand) (*View, error)

	Find(ctx context.Context, owner, projectID uuid.UUID) (*OrgView, error)
	Retrieve(ctx context.Context, owner, projectID uuid.UUID) (*View, error)

	// UpdateGraph decodes an edited graph and patches it onto the stored
	// tree. The stored name is kept and the enriched tree is cleared.
	UpdateGraph(ctx context.Context, owner, projectID uuid.UUID, cmd GraphCommand) (*View, error)

	// UpdateTree patches a tree onto the stored tree and clears the
	// enriched tree.
	UpdateTree(ctx context.Context, owner, projectID uuid.UUID, cmd TreeCommand) (*View, error)

	Enrich(ctx context.Context, owner, projectID uuid.UUID) (*View, error)

	// Regenerate reruns the pipeline from the project's stored texts and
	// documents, replacing both trees.
	Regenerate(ctx context.Context, owner, projectID uuid.UUID) (*View, error)

	Integrations(ctx context.Context, owner, projectID uuid.UUID) ([]Integration, error)
}
