package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/coderman400/AIArchitect/internal/projects"
	"github.com/coderman400/AIArchitect/pkg/auth"
	"github.com/coderman400/AIArchitect/pkg/handlers"
	"github.com/coderman400/AIArchitect/pkg/routes"
	"github.com/coderman400/AIArchitect/pkg/storage"
)

// storageHandler lists the blobs stored under a project the caller owns.
type storageHandler struct {
	store       storage.System
	projects    projects.System
	logger      *slog.Logger
	maxListSize int32
}

func newStorageHandler(
	store storage.System,
	projectSys projects.System,
	logger *slog.Logger,
	maxListSize int32,
) *storageHandler {
	return &storageHandler{
		store:       store,
		projects:    projectSys,
		logger:      logger.With("handler", "storage"),
		maxListSize: maxListSize,
	}
}

func (h *storageHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/storage",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/projects/{id}", Handler: h.list},
		},
	}
}

// list returns the project's blobs, optionally narrowed by a key prefix
// relative to the project folder and capped by max_results.
func (h *storageHandler) list(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.UserID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return
	}

	id, ok := handlers.PathUUID(w, r, h.logger, "id", projects.ErrNotFound)
	if !ok {
		return
	}

	limit := h.maxListSize
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 1 {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, storage.ErrInvalidLimit)
			return
		}
		if limit <= 0 || int32(n) < limit {
			limit = int32(n)
		}
	}

	if _, err := h.projects.Find(r.Context(), owner, id); err != nil {
		handlers.RespondError(w, h.logger, projects.MapHTTPStatus(err), err)
		return
	}

	prefix := projects.StoragePrefix(id) + strings.TrimPrefix(r.URL.Query().Get("prefix"), "/")
	blobs, err := h.store.List(r.Context(), prefix)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	if limit > 0 && int32(len(blobs)) > limit {
		blobs = blobs[:limit]
	}

	handlers.RespondJSON(w, http.StatusOK, blobs)
}
