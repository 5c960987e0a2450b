package api

import (
	"github.com/coderman400/AIArchitect/internal/documents"
	"github.com/coderman400/AIArchitect/internal/orgviews"
	"github.com/coderman400/AIArchitect/internal/pipeline"
	"github.com/coderman400/AIArchitect/internal/projects"
	"github.com/coderman400/AIArchitect/internal/prompts"
	"github.com/coderman400/AIArchitect/internal/users"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Users     users.System
	Projects  projects.System
	Documents documents.System
	Prompts   prompts.System
	OrgViews  orgviews.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	usersSystem := users.New(db, runtime.Auth, runtime.Logger)

	projectsSystem := projects.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	docsSystem := documents.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	promptsSystem := prompts.New(
		db,
		runtime.Logger,
		runtime.Pagination,
	)

	pipelineRuntime := &pipeline.Runtime{
		Agent:   runtime.Agent,
		Model:   runtime.Model,
		Prompts: promptsSystem,
		Logger:  runtime.Logger.With("system", "pipeline"),
	}

	orgviewsSystem := orgviews.New(
		db,
		projectsSystem,
		docsSystem,
		pipelineRuntime,
		runtime.Logger,
	)

	return &Domain{
		Users:     usersSystem,
		Projects:  projectsSystem,
		Documents: docsSystem,
		Prompts:   promptsSystem,
		OrgViews:  orgviewsSystem,
	}
}
