package orgviews

import (
	"errors"
	"net/http"

	"github.com/coderman400/AIArchitect/internal/documents"
	"github.com/coderman400/AIArchitect/internal/pipeline"
	"github.com/coderman400/AIArchitect/internal/projects"
	"github.com/coderman400/AIArchitect/workflow"
)

// Domain errors for org view operations.
var (
	ErrNotFound        = errors.New("org view not found")
	ErrDuplicate       = errors.New("project already has an org view")
	ErrVersionConflict = errors.New("org view was modified by another request")
	ErrInvalidUpload   = errors.New("invalid upload")
	ErrUploadTooLarge  = errors.New("upload exceeds maximum size")
	ErrInvalidBody     = errors.New("invalid request body")
)

// MapHTTPStatus maps org view, pipeline, and workflow errors to HTTP
// status codes. Model failures are reported as 502 since the fault lies
// with the upstream provider or its output.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, projects.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidUpload),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, projects.ErrInvalidInput),
		errors.Is(err, documents.ErrInvalidFile),
		errors.Is(err, pipeline.ErrEmptyInput),
		errors.Is(err, pipeline.ErrAttachmentRejected):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrLookup):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrValidation) && !isPipelineFailure(err):
		return http.StatusBadRequest
	case isPipelineFailure(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func isPipelineFailure(err error) bool {
	return errors.Is(err, pipeline.ErrSummarizeFailed) ||
		errors.Is(err, pipeline.ErrParseFailed) ||
		errors.Is(err, pipeline.ErrEnrichFailed) ||
		errors.Is(err, pipeline.ErrNoResponse) ||
		errors.Is(err, pipeline.ErrModelFailed)
}
