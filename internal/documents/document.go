// Package documents implements the source document domain. Documents are
// the images and PDFs uploaded with a project; their bytes live in blob
// storage and their metadata in the documents table.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded file with its metadata and blob storage reference.
type Document struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// CreateCommand carries the data needed to upload and register a new document.
// Data holds the raw file bytes. A nil PageCount is extracted from PDF
// content when possible and stored as NULL otherwise.
type CreateCommand struct {
	ProjectID   uuid.UUID
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}
