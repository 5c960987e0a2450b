// Package prompts manages instruction overrides for the generation stages.
// At most one override per stage is active; stages without one fall back to
// the built-in instructions.
package prompts

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prompt is a named instruction override for one generation stage.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StageInfo describes what a stage will run with: the effective
// instructions, the fixed output spec, and the active override if any.
type StageInfo struct {
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Spec         string  `json:"spec"`
	Override     *Prompt `json:"override"`
}

// CreateCommand carries the fields of a new override.
type CreateCommand struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

// UpdateCommand replaces the fields of an existing override.
type UpdateCommand CreateCommand

func (c *CreateCommand) normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Instructions = strings.TrimSpace(c.Instructions)

	switch {
	case c.Name == "":
		return ErrInvalidInput
	case c.Instructions == "":
		return ErrInvalidInput
	case c.Stage == "":
		return ErrInvalidStage
	}
	return nil
}
