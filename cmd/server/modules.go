package main

import (
	"net/http"

	"github.com/coderman400/AIArchitect/internal/api"
	"github.com/coderman400/AIArchitect/internal/config"
	"github.com/coderman400/AIArchitect/internal/infrastructure"
	"github.com/coderman400/AIArchitect/internal/tools"
	"github.com/coderman400/AIArchitect/pkg/handlers"
	"github.com/coderman400/AIArchitect/pkg/middleware"
	"github.com/coderman400/AIArchitect/pkg/module"
)

// Modules are the prefixed sub-applications mounted on the root router.
type Modules struct {
	API   *module.Module
	Tools *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:   apiModule,
		Tools: newToolsModule(infra, cfg.Version),
	}, nil
}

// newToolsModule exposes the workflow MCP tools at /mcp. The tools are
// pure transforms over request data, so the module carries no auth.
func newToolsModule(infra *infrastructure.Infrastructure, version string) *module.Module {
	logger := infra.Logger.With("module", "mcp")
	m := module.New("/mcp", tools.New(version, logger).HTTPHandler())
	m.Use(middleware.Recovery(logger), middleware.Logger(logger))
	return m
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Tools)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	return router
}
