package api

import (
	"log/slog"
	"net/http"

	"github.com/coderman400/AIArchitect/pkg/database"
	"github.com/coderman400/AIArchitect/pkg/handlers"
	"github.com/coderman400/AIArchitect/pkg/routes"
)

// publicPaths are reachable without a bearer token.
var publicPaths = []string{"/auth/register", "/auth/login", "/health"}

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	projectsHandler := domain.Projects.Handler()

	groups := []routes.Group{
		healthRoutes(runtime.Database, runtime.Logger),
		domain.Users.Handler().Routes(),
		projectsHandler.Routes(),
		projectsHandler.FlowRoutes(),
		domain.Documents.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		domain.OrgViews.Handler(runtime.MaxUploadSize).Routes(),
		newStorageHandler(runtime.Storage, domain.Projects, runtime.Logger, runtime.MaxListSize).routes(),
	}

	routes.Register(mux, groups...)

	for _, g := range groups {
		for _, p := range g.Patterns() {
			runtime.Logger.Debug("route registered", "pattern", p)
		}
	}
}

// healthRoutes reports 200 while the database answers pings and 503
// otherwise.
func healthRoutes(db database.System, logger *slog.Logger) routes.Group {
	return routes.Group{
		Prefix: "/health",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: func(w http.ResponseWriter, r *http.Request) {
				if err := db.Ready(r.Context()); err != nil {
					logger.Warn("health check failed", "error", err)
					handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
					return
				}
				handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			}},
		},
	}
}
