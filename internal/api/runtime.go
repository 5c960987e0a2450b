package api

import (
	"github.com/coderman400/AIArchitect/internal/config"
	"github.com/coderman400/AIArchitect/internal/infrastructure"
	"github.com/coderman400/AIArchitect/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	MaxUploadSize int64
	MaxListSize   int32
}

// NewRuntime scopes infra's logger to the API module and adds the
// API-facing limits from cfg.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		MaxUploadSize:  cfg.API.MaxUploadSizeBytes(),
		MaxListSize:    cfg.Storage.MaxListSize,
	}
}
