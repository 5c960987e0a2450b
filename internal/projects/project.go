// Package projects implements the project domain. A project belongs to a
// single user and groups the source material, documents, and org view of
// one business process.
package projects

import (
	"time"

	"github.com/google/uuid"
)

// Project is a named process owned by a user. Texts holds the free-form
// source descriptions the org view was generated from.
type Project struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Texts       []string  `json:"texts"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Flow is the summary entry returned by the flows listing.
type Flow struct {
	ProjectID   uuid.UUID `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// CreateCommand carries the data needed to create a project.
type CreateCommand struct {
	Name        string
	Description string
	Texts       []string
}

// UpdateCommand carries the editable project fields.
type UpdateCommand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
