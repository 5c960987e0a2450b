package documents

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/coderman400/AIArchitect/pkg/query"
	"github.com/coderman400/AIArchitect/pkg/repository"
)

// ownerColumn scopes queries to the owner of the joined project.
const ownerColumn = "p.user_id"

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("project_id", "ProjectID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("uploaded_at", "UploadedAt").
	Join("public", "projects", "p", "JOIN", "d.project_id = p.id")

const returning = "RETURNING id, project_id, filename, content_type, size_bytes, page_count, storage_key, uploaded_at"

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. ProjectID and ContentType use exact matching.
// Filename uses case-insensitive contains matching.
type Filters struct {
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	Filename    *string    `json:"filename,omitempty"`
	ContentType *string    `json:"content_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ProjectID", f.ProjectID).
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if pid := values.Get("project_id"); pid != "" {
		if v, err := uuid.Parse(pid); err == nil {
			f.ProjectID = &v
		}
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.ProjectID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.UploadedAt,
	)
	return d, err
}
