package workflow_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderman400/AIArchitect/workflow"
)

func node(id, label, parent string) workflow.Node {
	return workflow.Node{
		ID:       id,
		Type:     workflow.NodeType,
		Data:     workflow.NodeData{Label: label},
		ParentID: parent,
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	tree := workflow.Detail{
		Steps: workflow.Steps{
			{
				Actor:  "Sales",
				Action: "Review",
				Substeps: workflow.Steps{
					{Actor: "Sales", Action: "Check lead"},
					{
						Actor:    "Legal",
						Action:   "Approve contract",
						Substeps: workflow.Steps{{Action: "Archive"}},
					},
				},
			},
			{Actor: "Ops", Action: "Provision"},
			{Actor: "Sales", Action: "Close"},
		},
	}

	got, err := workflow.Decode(workflow.Encode(tree, sequentialIDs()))
	require.NoError(t, err)

	want := tree.Clone()
	want.Actors = []string{"Sales", "Ops"}

	assert.Equal(t, want, got)
}

func TestDecodeLeafSubstepsAbsent(t *testing.T) {
	tree := workflow.Detail{
		Steps: workflow.Steps{{Action: "only", Substeps: workflow.NoSteps()}},
	}

	got, err := workflow.Decode(workflow.Encode(tree, sequentialIDs()))
	require.NoError(t, err)

	require.Len(t, got.Steps, 1)
	assert.Nil(t, got.Steps[0].Substeps)
	assert.False(t, got.Steps[0].Substeps.Present())
}

func TestDecodeLabels(t *testing.T) {
	tests := []struct {
		label  string
		actor  string
		action string
	}{
		{"Sales: Review", "Sales", "Review"},
		{"Review", "", "Review"},
		{"Ops: Review: final", "Ops", "Review: final"},
		{"ratio 3:1", "", "ratio 3:1"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := workflow.Decode(workflow.Graph{
				Nodes: []workflow.Node{node("a", tt.label, "")},
			})
			require.NoError(t, err)

			assert.Equal(t, tt.actor, got.Steps[0].Actor)
			assert.Equal(t, tt.action, got.Steps[0].Action)
		})
	}
}

func TestDecodeOrderFollowsNodeInput(t *testing.T) {
	g := workflow.Graph{
		Nodes: []workflow.Node{
			node("c2", "second child", "p"),
			node("p", "parent", ""),
			node("c1", "first child", "p"),
			node("r2", "other root", ""),
		},
		Edges: []workflow.Edge{
			{ID: "ep-c1", Source: "p", Target: "c1"},
			{ID: "ec1-c2", Source: "c1", Target: "c2"},
		},
	}

	got, err := workflow.Decode(g)
	require.NoError(t, err)

	require.Len(t, got.Steps, 2)
	assert.Equal(t, "parent", got.Steps[0].Action)
	assert.Equal(t, "other root", got.Steps[1].Action)

	require.Len(t, got.Steps[0].Substeps, 2)
	assert.Equal(t, "second child", got.Steps[0].Substeps[0].Action)
	assert.Equal(t, "first child", got.Steps[0].Substeps[1].Action)
}

func TestDecodeActorsTopLevelOnly(t *testing.T) {
	g := workflow.Graph{
		Nodes: []workflow.Node{
			node("a", "Sales: Review", ""),
			node("b", "Legal: Approve", "a"),
			node("c", "Sales: Close", ""),
			node("d", "Notify", ""),
		},
	}

	got, err := workflow.Decode(g)
	require.NoError(t, err)

	assert.Equal(t, []string{"Sales"}, got.Actors)
}

func TestDecodeRestoresAnnotations(t *testing.T) {
	g := workflow.Graph{
		Nodes: []workflow.Node{
			{ID: "a", Data: workflow.NodeData{Label: "Approve", NodeType: "approval", Description: "Use an approval tool"}},
			{ID: "b", Data: workflow.NodeData{Label: "Archive", Recommendation: map[string]any{"tool": "drive"}, Description: "ignored"}},
		},
	}

	got, err := workflow.Decode(g)
	require.NoError(t, err)

	assert.Equal(t, "approval", got.Steps[0].Type)
	assert.Equal(t, "Use an approval tool", got.Steps[0].AIRecommendation)
	assert.Equal(t, map[string]any{"tool": "drive"}, got.Steps[1].AIRecommendation)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		graph   workflow.Graph
		wantErr error
	}{
		{
			"missing parent",
			workflow.Graph{Nodes: []workflow.Node{node("a", "x", "ghost")}},
			workflow.ErrLookup,
		},
		{
			"edge source missing",
			workflow.Graph{
				Nodes: []workflow.Node{node("a", "x", "")},
				Edges: []workflow.Edge{{ID: "e1", Source: "ghost", Target: "a"}},
			},
			workflow.ErrLookup,
		},
		{
			"edge target missing",
			workflow.Graph{
				Nodes: []workflow.Node{node("a", "x", "")},
				Edges: []workflow.Edge{{ID: "e1", Source: "a", Target: "ghost"}},
			},
			workflow.ErrLookup,
		},
		{
			"duplicate id",
			workflow.Graph{Nodes: []workflow.Node{node("a", "x", ""), node("a", "y", "")}},
			workflow.ErrValidation,
		},
		{
			"empty id",
			workflow.Graph{Nodes: []workflow.Node{node("", "x", "")}},
			workflow.ErrValidation,
		},
		{
			"self parent",
			workflow.Graph{Nodes: []workflow.Node{node("a", "x", ""), node("b", "y", "b")}},
			workflow.ErrValidation,
		},
		{
			"parent cycle",
			workflow.Graph{Nodes: []workflow.Node{node("a", "x", "b"), node("b", "y", "a")}},
			workflow.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := workflow.Decode(tt.graph)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, workflow.Detail{}, got)
		})
	}
}

func TestNodeUnmarshalParentSpellings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"parentNode", `{"id":"b","type":"default","position":{"x":0,"y":0},"data":{"label":"x"},"parentNode":"a"}`},
		{"parentId", `{"id":"b","type":"default","position":{"x":0,"y":0},"data":{"label":"x"},"parentId":"a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n workflow.Node
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &n))
			assert.Equal(t, "a", n.ParentID)
			assert.Equal(t, "b", n.ID)
			assert.Equal(t, "x", n.Data.Label)
		})
	}
}

func TestGraphJSONShape(t *testing.T) {
	g := workflow.Encode(workflow.Detail{
		Steps: workflow.Steps{{Actor: "A", Action: "b", Substeps: workflow.Steps{{Action: "c"}}}},
	}, sequentialIDs())

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var raw struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "n1", raw.Nodes[1]["parentNode"])
	assert.Equal(t, "parent", raw.Nodes[1]["extent"])
	assert.NotContains(t, raw.Nodes[0], "parentNode")
	assert.Equal(t, "en1-n2", raw.Edges[0]["id"])
}
