// Package orgviews implements the org view domain: the stored workflow tree
// of a project, its enriched copy, and the React Flow graphs served to the
// editor. Graphs are never stored; they are encoded from the trees on
// every read.
package orgviews

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/coderman400/AIArchitect/internal/pipeline"
	"github.com/coderman400/AIArchitect/workflow"
)

// OrgView is the persisted workflow of a project. Enriched is nil until
// the enrich stage has run against the current tree.
type OrgView struct {
	ID        uuid.UUID        `json:"id"`
	ProjectID uuid.UUID        `json:"project_id"`
	Tree      workflow.Detail  `json:"tree"`
	Enriched  *workflow.Detail `json:"enriched"`
	Version   int              `json:"version"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// View is the editor payload for an org view.
type View struct {
	ProjectID uuid.UUID       `json:"project_id"`
	OrgViewID uuid.UUID       `json:"org_view_id"`
	Version   int             `json:"version"`
	Graph     workflow.Graph  `json:"react_flow_json"`
	AIGraph   *workflow.Graph `json:"ai_react_flow_json"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewView encodes the trees of ov into graphs with ids from newID.
func NewView(ov *OrgView, newID workflow.IDFunc) *View {
	v := &View{
		ProjectID: ov.ProjectID,
		OrgViewID: ov.ID,
		Version:   ov.Version,
		Graph:     workflow.Encode(ov.Tree, newID),
		UpdatedAt: ov.UpdatedAt,
	}
	if ov.Enriched != nil {
		g := workflow.Encode(*ov.Enriched, newID)
		v.AIGraph = &g
	}
	return v
}

// Integration is a step the enrich stage marked for automation.
type Integration struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Integrations is the response of the integrations endpoint.
type Integrations struct {
	NodeList []Integration `json:"node_list"`
}

// CollectIntegrations lists the steps of d, depth-first, whose type is
// set and is not manual.
func CollectIntegrations(d workflow.Detail) []Integration {
	list := make([]Integration, 0)
	d.Walk(func(s *workflow.Step, _ int) bool {
		if s.Type == "" || s.Type == string(pipeline.IntegrationManual) {
			return true
		}
		list = append(list, Integration{
			Name:        s.Label(),
			Type:        s.Type,
			Description: describe(s.AIRecommendation),
		})
		return true
	})
	return list
}

func describe(rec any) string {
	switch v := rec.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// GenerateCommand carries the uploaded material for a new org view.
type GenerateCommand struct {
	ProjectName string
	Description string
	Texts       []string
	Attachments []pipeline.Attachment
}

// GraphCommand is an edited graph sent back by the editor. A non-nil
// Version must match the stored version.
type GraphCommand struct {
	Nodes   []workflow.Node `json:"nodes"`
	Edges   []workflow.Edge `json:"edges"`
	Version *int            `json:"version,omitempty"`
}

// Graph returns the nodes and edges of the command as a graph.
func (c GraphCommand) Graph() workflow.Graph {
	return workflow.Graph{Nodes: c.Nodes, Edges: c.Edges}
}

// TreeCommand replaces the stored tree. A non-nil Version must match the
// stored version.
type TreeCommand struct {
	Tree    workflow.Detail
	Version *int
}

// TreeResponse is the payload of the tree endpoint.
type TreeResponse struct {
	ProjectID uuid.UUID        `json:"project_id"`
	OrgViewID uuid.UUID        `json:"org_view_id"`
	Version   int              `json:"version"`
	Tree      workflow.Detail  `json:"tree"`
	Enriched  *workflow.Detail `json:"enriched"`
}
