package prompts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/coderman400/AIArchitect/pkg/handlers"
	"github.com/coderman400/AIArchitect/pkg/pagination"
	"github.com/coderman400/AIArchitect/pkg/routes"
)

// Handler provides HTTP endpoints for prompt overrides.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "prompts"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for prompt endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/stages", Handler: h.Stages},
			{Method: "GET", Pattern: "/stages/{stage}", Handler: h.Stage},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "POST", Pattern: "/{id}/activate", Handler: h.Activate},
			{Method: "POST", Pattern: "/{id}/deactivate", Handler: h.Deactivate},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	result, err := h.sys.List(r.Context(), page, FiltersFromQuery(r.URL.Query()))
	handlers.Respond(w, h.logger, MapHTTPStatus, http.StatusOK, result, err)
}

// Search accepts pagination and filter criteria as a JSON body.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := handlers.DecodeJSON[SearchRequest](w, r, h.logger)
	if !ok {
		return
	}
	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	handlers.Respond(w, h.logger, MapHTTPStatus, http.StatusOK, result, err)
}

func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Stages())
}

// Stage reports the instructions a stage will run with and the active
// override behind them, if any.
func (h *Handler) Stage(w http.ResponseWriter, r *http.Request) {
	stage, err := ParseStage(r.PathValue("stage"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	detail, err := h.stageDetail(r.Context(), stage)
	handlers.Respond(w, h.logger, MapHTTPStatus, http.StatusOK, detail, err)
}

func (h *Handler) stageDetail(ctx context.Context, stage Stage) (*StageInfo, error) {
	detail := &StageInfo{Stage: stage}

	override, err := h.sys.Active(ctx, stage)
	switch {
	case err == nil:
		detail.Override = override
		detail.Instructions = override.Instructions
	case errors.Is(err, ErrNotFound):
		if detail.Instructions, err = Instructions(stage); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if detail.Spec, err = h.sys.Spec(ctx, stage); err != nil {
		return nil, err
	}
	return detail, nil
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, http.StatusOK, h.sys.Find)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, ok := handlers.DecodeJSON[CreateCommand](w, r, h.logger)
	if !ok {
		return
	}

	prompt, err := h.sys.Create(r.Context(), cmd)
	handlers.Respond(w, h.logger, MapHTTPStatus, http.StatusCreated, prompt, err)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathUUID(w, r, h.logger, "id", ErrNotFound)
	if !ok {
		return
	}
	cmd, ok := handlers.DecodeJSON[UpdateCommand](w, r, h.logger)
	if !ok {
		return
	}

	prompt, err := h.sys.Update(r.Context(), id, cmd)
	handlers.Respond(w, h.logger, MapHTTPStatus, http.StatusOK, prompt, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathUUID(w, r, h.logger, "id", ErrNotFound)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Activate makes the prompt the active override for its stage,
// deactivating whichever prompt held that role.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, http.StatusOK, h.sys.Activate)
}

// Deactivate returns the prompt's stage to its built-in instructions.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, http.StatusOK, h.sys.Deactivate)
}

// withID runs op against the prompt named by the {id} path value.
func (h *Handler) withID(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	op func(context.Context, uuid.UUID) (*Prompt, error),
) {
	id, ok := handlers.PathUUID(w, r, h.logger, "id", ErrNotFound)
	if !ok {
		return
	}

	prompt, err := op(r.Context(), id)
	handlers.Respond(w, h.logger, MapHTTPStatus, status, prompt, err)
}
