// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/coderman400/AIArchitect/internal/config"
	"github.com/coderman400/AIArchitect/internal/infrastructure"
	"github.com/coderman400/AIArchitect/internal/users"
	"github.com/coderman400/AIArchitect/pkg/auth"
	"github.com/coderman400/AIArchitect/pkg/middleware"
	"github.com/coderman400/AIArchitect/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Requests outside the public paths must carry a bearer token that
// resolves to a local user.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	verifier := users.NewVerifier(runtime.Auth, domain.Users)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(
		middleware.Recovery(runtime.Logger),
		middleware.CORS(&cfg.API.CORS),
		middleware.Logger(runtime.Logger),
		middleware.Compress(),
		auth.Middleware(verifier, runtime.Logger, publicPaths...),
	)

	return m, nil
}
