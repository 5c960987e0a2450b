package prompts

import (
	"context"

	"github.com/google/uuid"

	"github.com/coderman400/AIArchitect/pkg/pagination"
)

// System defines the public contract for prompt overrides.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Prompt], error)

	Find(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Create(ctx context.Context, cmd CreateCommand) (*Prompt, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Activate makes the prompt the only active override for its stage.
	Activate(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error)

	// Active returns the active override for stage, or ErrNotFound.
	Active(ctx context.Context, stage Stage) (*Prompt, error)

	// Instructions returns the active override for stage, or the default.
	Instructions(ctx context.Context, stage Stage) (string, error)

	// Spec returns the immutable output spec for stage.
	Spec(ctx context.Context, stage Stage) (string, error)
}
