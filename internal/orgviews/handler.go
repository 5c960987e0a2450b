package orgviews

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/coderman400/AIArchitect/internal/pipeline"
	"github.com/coderman400/AIArchitect/pkg/auth"
	"github.com/coderman400/AIArchitect/pkg/formatting"
	"github.com/coderman400/AIArchitect/pkg/handlers"
	"github.com/coderman400/AIArchitect/pkg/routes"
	"github.com/coderman400/AIArchitect/workflow"
)

// multipartMemory is the part of a multipart body held in memory; the
// remainder spills to temporary files.
const multipartMemory = 32 << 20

// fileFields are the multipart fields that carry attachments.
var fileFields = []string{"images", "pdfs", "files"}

// Handler provides HTTP endpoints for org view operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "orgviews"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for org view endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/orgview",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/generate", Handler: h.Generate},
			{Method: "GET", Pattern: "/retrieve/{project_id}", Handler: h.Retrieve},
			{Method: "GET", Pattern: "/tree/{project_id}", Handler: h.Tree},
			{Method: "PUT", Pattern: "/tree/{project_id}", Handler: h.UpdateTree},
			{Method: "PUT", Pattern: "/graph/{project_id}", Handler: h.UpdateGraph},
			{Method: "POST", Pattern: "/enrich/{project_id}", Handler: h.Enrich},
			{Method: "POST", Pattern: "/regenerate/{project_id}", Handler: h.Regenerate},
			{Method: "GET", Pattern: "/integrations/{project_id}", Handler: h.Integrations},
		},
	}
}

// Generate accepts a multipart upload with project_name, repeated texts,
// and image or PDF files, and returns the generated org view.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	cmd, err := h.readUpload(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	view, err := h.sys.Generate(r.Context(), owner, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, view)
}

// Retrieve returns the graphs of a project's org view.
func (h *Handler) Retrieve(w http.ResponseWriter, r *http.Request) {
	owner, projectID, ok := h.target(w, r)
	if !ok {
		return
	}

	view, err := h.sys.Retrieve(r.Context(), owner, projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// Tree returns the stored tree and enriched tree.
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	owner, projectID, ok := h.target(w, r)
	if !ok {
		return
	}

	ov, err := h.sys.Find(r.Context(), owner, projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, TreeResponse{
		ProjectID: ov.ProjectID,
		OrgViewID: ov.ID,
		Version:   ov.Version,
		Tree:      ov.Tree,
		Enriched:  ov.Enriched,
	})
}

// UpdateTree accepts {tree, version?} and patches the tree onto the stored one.
func (h *Handler) UpdateTree(w http.ResponseWriter, r *http.Request) {
	owner, projectID, ok := h.target(w, r)
	if !ok {
		return
	}

	var body struct {
		Tree    json.RawMessage `json:"tree"`
		Version *int            `json:"version"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Tree) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	tree, err := workflow.UnmarshalDetail(body.Tree)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	view, err := h.sys.UpdateTree(r.Context(), owner, projectID, TreeCommand{Tree: tree, Version: body.Version})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// UpdateGraph accepts {nodes, edges, version?} from the editor.
func (h *Handler) UpdateGraph(w http.ResponseWriter, r *http.Request) {
	owner, projectID, ok := h.target(w, r)
	if !ok {
		return
	}

	var cmd GraphCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	view, err := h.sys.UpdateGraph(r.Context(), owner, projectID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// Enrich reruns the enrich stage against the stored tree.
func (h *Handler) Enrich(w http.ResponseWriter, r *http.Request) {
	owner, projectID, ok := h.target(w, r)
	if !ok {
		return
	}

	view, err := h.sys.Enrich(r.Context(), owner, projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// Regenerate reruns the whole pipeline from the stored project material.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	owner, projectID, ok := h.target(w, r)
	if !ok {
		return
	}

	view, err := h.sys.Regenerate(r.Context(), owner, projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// Integrations lists the enriched steps suited for automation.
func (h *Handler) Integrations(w http.ResponseWriter, r *http.Request) {
	owner, projectID, ok := h.target(w, r)
	if !ok {
		return
	}

	list, err := h.sys.Integrations(r.Context(), owner, projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Integrations{NodeList: list})
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (GenerateCommand, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return GenerateCommand{}, fmt.Errorf("%w: limit is %s", ErrUploadTooLarge, formatting.FormatBytes(tooLarge.Limit, 0))
		}
		return GenerateCommand{}, fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}
	defer r.MultipartForm.RemoveAll()

	form := r.MultipartForm
	cmd := GenerateCommand{
		ProjectName: strings.TrimSpace(r.FormValue("project_name")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if cmd.ProjectName == "" {
		return GenerateCommand{}, fmt.Errorf("%w: project_name is required", ErrInvalidUpload)
	}

	for _, text := range form.Value["texts"] {
		if text = strings.TrimSpace(text); text != "" {
			cmd.Texts = append(cmd.Texts, text)
		}
	}

	for _, field := range fileFields {
		for _, fh := range form.File[field] {
			a, err := readAttachment(fh)
			if err != nil {
				return GenerateCommand{}, err
			}
			cmd.Attachments = append(cmd.Attachments, a)
		}
	}

	return cmd, nil
}

func readAttachment(fh *multipart.FileHeader) (pipeline.Attachment, error) {
	f, err := fh.Open()
	if err != nil {
		return pipeline.Attachment{}, fmt.Errorf("%w: open %s: %w", ErrInvalidUpload, fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return pipeline.Attachment{}, fmt.Errorf("%w: read %s: %w", ErrInvalidUpload, fh.Filename, err)
	}

	return pipeline.Attachment{
		Filename:    fh.Filename,
		ContentType: pipeline.DetectContentType(fh.Header.Get("Content-Type"), fh.Filename, data),
		Data:        data,
	}, nil
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	owner, err := auth.UserID(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return uuid.Nil, false
	}
	return owner, true
}

func (h *Handler) target(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	owner, ok := h.owner(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	projectID, err := uuid.Parse(r.PathValue("project_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: project id", ErrInvalidBody))
		return uuid.Nil, uuid.Nil, false
	}
	return owner, projectID, true
}
