package workflow

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	// NodeType is the React Flow node type assigned to encoded steps.
	NodeType = "default"
	// EdgeType is the React Flow edge type assigned to encoded edges.
	EdgeType = "default"
	// ExtentParent confines a child node to its parent's bounds.
	ExtentParent = "parent"

	labelSeparator = ": "
)

// IDFunc returns a fresh unique node id on every call.
type IDFunc func() string

// NewID is the default IDFunc, producing random UUIDs.
func NewID() string {
	return uuid.NewString()
}

// Graph is the flattened node and edge form of a workflow tree.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Position is a layout hint and carries no meaning for the tree.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the open payload displayed by the diagram client.
// Description mirrors Recommendation when the recommendation is plain text.
type NodeData struct {
	Label          string `json:"label"`
	NodeType       string `json:"nodeType,omitempty"`
	Description    string `json:"description,omitempty"`
	Recommendation any    `json:"recommendation,omitempty"`
}

// Node is a single positioned step in a Graph. ParentID expresses
// containment only and is the sole source of nesting on decode.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
	ParentID string   `json:"parentNode,omitempty"`
	Extent   string   `json:"extent,omitempty"`
}

// UnmarshalJSON accepts both the parentNode and parentId spellings used by
// different React Flow releases.
func (n *Node) UnmarshalJSON(data []byte) error {
	type plain Node
	var aux struct {
		plain
		ParentAlt string `json:"parentId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*n = Node(aux.plain)
	if n.ParentID == "" {
		n.ParentID = aux.ParentAlt
	}
	return nil
}

// Edge is a directed order link between two nodes.
type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type,omitempty"`
	Label    string `json:"label,omitempty"`
	Animated bool   `json:"animated,omitempty"`
}

// EdgeID derives the deterministic id of the edge from source to target.
func EdgeID(source, target string) string {
	return "e" + source + "-" + target
}
