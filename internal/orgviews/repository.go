package orgviews

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/coderman400/AIArchitect/internal/documents"
	"github.com/coderman400/AIArchitect/internal/pipeline"
	"github.com/coderman400/AIArchitect/internal/projects"
	"github.com/coderman400/AIArchitect/pkg/query"
	"github.com/coderman400/AIArchitect/pkg/repository"
	"github.com/coderman400/AIArchitect/workflow"
)

type repo struct {
	db        *sql.DB
	projects  projects.System
	documents documents.System
	runtime   *pipeline.Runtime
	newID     workflow.IDFunc
	logger    *slog.Logger
}

// New creates an org view repository implementing the System interface.
// Graph node ids come from workflow.NewID.
func New(
	db *sql.DB,
	projectSys projects.System,
	documentSys documents.System,
	runtime *pipeline.Runtime,
	logger *slog.Logger,
) System {
	return &repo{
		db:        db,
		projects:  projectSys,
		documents: documentSys,
		runtime:   runtime,
		newID:     workflow.NewID,
		logger:    logger.With("system", "orgviews"),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, maxUploadSize)
}

func (r *repo) Generate(ctx context.Context, owner uuid.UUID, cmd GenerateCommand) (*View, error) {
	name := strings.TrimSpace(cmd.ProjectName)
	if name == "" {
		return nil, fmt.Errorf("%w: project_name is required", ErrInvalidUpload)
	}

	in := pipeline.Input{Name: name, Texts: cmd.Texts, Attachments: cmd.Attachments}
	res, err := pipeline.Execute(ctx, r.runtime, in)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", name, err)
	}

	description := cmd.Description
	if description == "" {
		description = res.Summary.Description
	}

	project, err := r.projects.Create(ctx, owner, projects.CreateCommand{
		Name:        name,
		Description: description,
		Texts:       cmd.Texts,
	})
	if err != nil {
		return nil, err
	}

	ov, err := r.store(ctx, project.ID, cmd.Attachments, res)
	if err != nil {
		if delErr := r.projects.Delete(ctx, owner, project.ID); delErr != nil {
			r.logger.Warn("compensating project delete failed", "project", project.ID, "error", delErr)
		}
		return nil, err
	}

	r.logger.Info(
		"org view generated",
		"project", project.ID,
		"name", ov.Tree.Name,
		"steps", ov.Tree.Count(),
		"attachments", len(cmd.Attachments),
		"fixes", len(res.Fixes),
	)
	return NewView(ov, r.newID), nil
}

func (r *repo) store(
	ctx context.Context,
	projectID uuid.UUID,
	attachments []pipeline.Attachment,
	res *pipeline.Result,
) (*OrgView, error) {
	for _, a := range attachments {
		_, err := r.documents.Create(ctx, documents.CreateCommand{
			ProjectID:   projectID,
			Data:        a.Data,
			Filename:    a.Filename,
			ContentType: a.ContentType,
		})
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", a.Filename, err)
		}
	}

	tree, enriched, err := encodeTrees(res.Detail, &res.Enriched)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO orgviews(project_id, tree, enriched)
		VALUES ($1, $2, $3)
		` + returning

	args := []any{projectID, tree, enriched}

	ov, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (OrgView, error) {
		return repository.QueryOne(ctx, tx, q, args, scanOrgView)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &ov, nil
}

func (r *repo) Find(ctx context.Context, owner, projectID uuid.UUID) (*OrgView, error) {
	q, args := scoped(owner, projectID).BuildSingleOrNull()

	ov, err := repository.QueryOne(ctx, r.db, q, args, scanOrgView)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &ov, nil
}

func (r *repo) Retrieve(ctx context.Context, owner, projectID uuid.UUID) (*View, error) {
	ov, err := r.Find(ctx, owner, projectID)
	if err != nil {
		return nil, err
	}
	return NewView(ov, r.newID), nil
}

func (r *repo) UpdateGraph(ctx context.Context, owner, projectID uuid.UUID, cmd GraphCommand) (*View, error) {
	decoded, err := workflow.Decode(cmd.Graph())
	if err != nil {
		return nil, err
	}

	ov, err := r.update(ctx, owner, projectID, cmd.Version, func(current OrgView) (workflow.Detail, *workflow.Detail) {
		decoded.Name = current.Tree.Name
		return workflow.Patch(current.Tree, decoded), nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("org view graph updated", "project", projectID, "version", ov.Version, "steps", ov.Tree.Count())
	return NewView(ov, r.newID), nil
}

func (r *repo) UpdateTree(ctx context.Context, owner, projectID uuid.UUID, cmd TreeCommand) (*View, error) {
	ov, err := r.update(ctx, owner, projectID, cmd.Version, func(current OrgView) (workflow.Detail, *workflow.Detail) {
		return workflow.Patch(current.Tree, cmd.Tree), nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("org view tree updated", "project", projectID, "version", ov.Version, "steps", ov.Tree.Count())
	return NewView(ov, r.newID), nil
}

func (r *repo) Enrich(ctx context.Context, owner, projectID uuid.UUID) (*View, error) {
	current, err := r.Find(ctx, owner, projectID)
	if err != nil {
		return nil, err
	}

	enriched, err := pipeline.Enrich(ctx, r.runtime, current.Tree)
	if err != nil {
		return nil, fmt.Errorf("enrich project %s: %w", projectID, err)
	}

	// The tree may have been edited while the model was running; the
	// version check keeps a stale enrichment from being stored.
	ov, err := r.update(ctx, owner, projectID, &current.Version, func(latest OrgView) (workflow.Detail, *workflow.Detail) {
		return latest.Tree, &enriched
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("org view enriched", "project", projectID, "version", ov.Version)
	return NewView(ov, r.newID), nil
}

func (r *repo) Regenerate(ctx context.Context, owner, projectID uuid.UUID) (*View, error) {
	project, err := r.projects.Find(ctx, owner, projectID)
	if err != nil {
		return nil, err
	}

	attachments, err := r.attachments(ctx, owner, projectID)
	if err != nil {
		return nil, err
	}

	in := pipeline.Input{Name: project.Name, Texts: project.Texts, Attachments: attachments}
	res, err := pipeline.Execute(ctx, r.runtime, in)
	if err != nil {
		return nil, fmt.Errorf("regenerate %s: %w", project.Name, err)
	}

	ov, err := r.update(ctx, owner, projectID, nil, func(OrgView) (workflow.Detail, *workflow.Detail) {
		return res.Detail, &res.Enriched
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("org view regenerated", "project", projectID, "version", ov.Version, "steps", ov.Tree.Count())
	return NewView(ov, r.newID), nil
}

func (r *repo) Integrations(ctx context.Context, owner, projectID uuid.UUID) ([]Integration, error) {
	ov, err := r.Find(ctx, owner, projectID)
	if err != nil {
		return nil, err
	}
	if ov.Enriched == nil {
		return []Integration{}, nil
	}
	return CollectIntegrations(*ov.Enriched), nil
}

func (r *repo) attachments(ctx context.Context, owner, projectID uuid.UUID) ([]pipeline.Attachment, error) {
	docs, err := r.documents.ByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	attachments := make([]pipeline.Attachment, 0, len(docs))
	for _, d := range docs {
		_, body, err := r.documents.Download(ctx, owner, d.ID)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", d.Filename, err)
		}
		data, err := io.ReadAll(body)
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", d.Filename, err)
		}
		attachments = append(attachments, pipeline.Attachment{
			Filename:    d.Filename,
			ContentType: d.ContentType,
			Data:        data,
		})
	}
	return attachments, nil
}

// update locks the org view row, checks version when given, and stores
// the trees returned by mutate with an incremented version.
func (r *repo) update(
	ctx context.Context,
	owner, projectID uuid.UUID,
	version *int,
	mutate func(current OrgView) (workflow.Detail, *workflow.Detail),
) (*OrgView, error) {
	sel, selArgs := scoped(owner, projectID).ForUpdate().BuildSingleOrNull()

	ov, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (OrgView, error) {
		current, err := repository.QueryOne(ctx, tx, sel, selArgs, scanOrgView)
		if err != nil {
			return OrgView{}, err
		}
		if version != nil && *version != current.Version {
			return OrgView{}, fmt.Errorf("%w: have %d, got %d", ErrVersionConflict, current.Version, *version)
		}

		tree, enriched, err := encodeTrees(mutate(current))
		if err != nil {
			return OrgView{}, err
		}

		q := `
			UPDATE orgviews
			SET tree = $1, enriched = $2, version = version + 1, updated_at = now()
			WHERE id = $3
			` + returning

		return repository.QueryOne(ctx, tx, q, []any{tree, enriched, current.ID}, scanOrgView)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &ov, nil
}

func scoped(owner, projectID uuid.UUID) *query.Builder {
	return query.
		NewBuilder(projection).
		WhereEquals("ProjectID", projectID).
		WhereEquals(ownerColumn, owner)
}
