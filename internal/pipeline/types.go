// Package pipeline generates workflow trees from business process material
// through a language model. Stages run in order: summarize, detail, enrich.
package pipeline

import (
	"slices"
	"time"

	"github.com/coderman400/AIArchitect/workflow"
)

// IntegrationType classifies the software integration that supports a step.
type IntegrationType string

// Integration types assigned by the enrich stage.
const (
	IntegrationManual      IntegrationType = "manual"
	IntegrationEmail       IntegrationType = "email"
	IntegrationCRM         IntegrationType = "crm"
	IntegrationERP         IntegrationType = "erp"
	IntegrationSpreadsheet IntegrationType = "spreadsheet"
	IntegrationMessaging   IntegrationType = "messaging"
	IntegrationDocument    IntegrationType = "document"
	IntegrationApproval    IntegrationType = "approval"
	IntegrationScheduling  IntegrationType = "scheduling"
	IntegrationCustom      IntegrationType = "custom"
)

var integrationTypes = []IntegrationType{
	IntegrationManual,
	IntegrationEmail,
	IntegrationCRM,
	IntegrationERP,
	IntegrationSpreadsheet,
	IntegrationMessaging,
	IntegrationDocument,
	IntegrationApproval,
	IntegrationScheduling,
	IntegrationCustom,
}

// IntegrationTypes returns the recognized integration types.
func IntegrationTypes() []IntegrationType {
	return integrationTypes
}

// Valid reports whether t is a recognized integration type.
func (t IntegrationType) Valid() bool {
	return slices.Contains(integrationTypes, t)
}

// Attachment is a binary source file passed to the model alongside text.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Input is the raw business process material for one generation run.
// Name is used when the model does not produce a workflow name.
type Input struct {
	Name        string
	Texts       []string
	Attachments []Attachment
}

// Summary is the output of the summarize stage.
type Summary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Enrichment is the per-step output of the enrich stage.
type Enrichment struct {
	Type           IntegrationType `json:"type"`
	Recommendation string          `json:"recommendation"`
}

// Result carries every stage output of a completed run.
// Fixes lists the repairs applied to the detail stage output.
type Result struct {
	Summary     Summary         `json:"summary"`
	Detail      workflow.Detail `json:"detail"`
	Enriched    workflow.Detail `json:"enriched"`
	Fixes       []workflow.Fix  `json:"fixes,omitempty"`
	CompletedAt time.Time       `json:"completed_at"`
}
