package workflow_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderman400/AIArchitect/workflow"
)

func TestPatchStepFallback(t *testing.T) {
	original := workflow.Detail{
		Steps: workflow.Steps{{Actor: "Sales", Action: "Review", Inputs: []string{"lead"}}},
	}
	updated := workflow.Detail{
		Steps: workflow.Steps{{Actor: "Sales", Action: "Review"}},
	}

	got := workflow.Patch(original, updated)

	assert.Equal(t, []string{"lead"}, got.Steps[0].Inputs)
	assert.Nil(t, got.Steps[0].Substeps)
}

func TestPatchNonOverwrite(t *testing.T) {
	original := workflow.Detail{
		Inputs: []string{"old"},
		Steps: workflow.Steps{{
			Actor:   "Sales",
			Action:  "Review",
			Inputs:  []string{"lead"},
			Outputs: []string{"report"},
			Extra:   map[string]any{"sla": "2d"},
		}},
	}
	updated := workflow.Detail{
		Inputs: []string{"new"},
		Steps: workflow.Steps{{
			Actor:  "Sales",
			Action: "Review",
			Inputs: []string{"customer"},
			Extra:  map[string]any{"owner": "amy"},
		}},
	}

	got := workflow.Patch(original, updated)

	assert.Equal(t, []string{"new"}, got.Inputs)
	assert.Equal(t, []string{"customer"}, got.Steps[0].Inputs)
	assert.Equal(t, []string{"report"}, got.Steps[0].Outputs)
	assert.Equal(t, map[string]any{"owner": "amy"}, got.Steps[0].Extra)
}

func TestPatchRenamedStepGetsNoBackfill(t *testing.T) {
	tests := []struct {
		name    string
		updated workflow.Step
	}{
		{"action changed", workflow.Step{Actor: "Sales", Action: "Review lead"}},
		{"actor changed", workflow.Step{Actor: "Marketing", Action: "Review"}},
	}

	original := workflow.Detail{
		Steps: workflow.Steps{{Actor: "Sales", Action: "Review", Inputs: []string{"lead"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workflow.Patch(original, workflow.Detail{Steps: workflow.Steps{tt.updated}})
			assert.Empty(t, got.Steps[0].Inputs)
		})
	}
}

func TestPatchRootFallback(t *testing.T) {
	sub := workflow.Detail{Name: "billing", Steps: workflow.Steps{{Action: "Invoice"}}}
	original := workflow.Detail{
		Name:         "old name",
		Inputs:       []string{"request"},
		Outputs:      []string{"account"},
		Connections:  []string{"billing"},
		Extra:        map[string]any{"owner": "ops"},
		Subworkflows: []workflow.Detail{sub},
	}
	updated := workflow.Detail{
		Name:    "new name",
		Actors:  []string{"Ops"},
		Steps:   workflow.Steps{{Actor: "Ops", Action: "Provision"}},
		Outputs: []string{},
	}

	got := workflow.Patch(original, updated)

	assert.Equal(t, "new name", got.Name)
	assert.Equal(t, []string{"Ops"}, got.Actors)
	assert.Equal(t, []string{"request"}, got.Inputs)
	assert.Equal(t, []string{"account"}, got.Outputs)
	assert.Equal(t, []string{"billing"}, got.Connections)
	assert.Equal(t, map[string]any{"owner": "ops"}, got.Extra)
	assert.Equal(t, []workflow.Detail{sub}, got.Subworkflows)
}

func TestPatchRecursesWhenBothHaveSubsteps(t *testing.T) {
	original := workflow.Detail{
		Steps: workflow.Steps{
			{
				Actor:  "Sales",
				Action: "Review",
				Substeps: workflow.Steps{
					{Action: "Check", Outputs: []string{"score"}},
					{Action: "Log", Connections: []string{"crm"}},
				},
			},
			{
				Actor:    "Ops",
				Action:   "Provision",
				Substeps: workflow.Steps{{Action: "Create account", Inputs: []string{"form"}}},
			},
		},
	}
	updated := workflow.Detail{
		Steps: workflow.Steps{
			{
				Actor:  "Sales",
				Action: "Review",
				Substeps: workflow.Steps{
					{Action: "Log"},
					{Action: "Check"},
					{Action: "Escalate"},
				},
			},
			{Actor: "Ops", Action: "Provision"},
		},
	}

	got := workflow.Patch(original, updated)

	review := got.Steps[0].Substeps
	require.Len(t, review, 3)
	assert.Equal(t, []string{"crm"}, review[0].Connections)
	assert.Equal(t, []string{"score"}, review[1].Outputs)
	assert.Empty(t, review[2].Outputs)
	assert.Empty(t, review[2].Connections)

	assert.Nil(t, got.Steps[1].Substeps)
}

func TestPatchDropsRemovedSteps(t *testing.T) {
	original := workflow.Detail{
		Steps: workflow.Steps{
			{Action: "keep", Inputs: []string{"a"}},
			{Action: "remove", Inputs: []string{"b"}},
		},
	}
	updated := workflow.Detail{Steps: workflow.Steps{{Action: "keep"}}}

	got := workflow.Patch(original, updated)

	require.Len(t, got.Steps, 1)
	assert.Equal(t, "keep", got.Steps[0].Action)
	assert.Equal(t, []string{"a"}, got.Steps[0].Inputs)
}

func TestPatchDuplicateKeysLastWins(t *testing.T) {
	original := workflow.Detail{
		Steps: workflow.Steps{
			{Actor: "Ops", Action: "Check", Inputs: []string{"first"}},
			{Actor: "Ops", Action: "Check", Inputs: []string{"second"}},
		},
	}
	updated := workflow.Detail{
		Steps: workflow.Steps{
			{Actor: "Ops", Action: "Check"},
			{Actor: "Ops", Action: "Check"},
		},
	}

	got := workflow.Patch(original, updated)

	assert.Equal(t, []string{"second"}, got.Steps[0].Inputs)
	assert.Equal(t, []string{"second"}, got.Steps[1].Inputs)
}

func TestPatchIdempotent(t *testing.T) {
	original := workflow.Detail{
		Name:        "flow",
		Connections: []string{"billing"},
		Steps: workflow.Steps{
			{
				Actor:  "Sales",
				Action: "Review",
				Inputs: []string{"lead"},
				Extra:  map[string]any{"nested": map[string]any{"k": []any{"v"}}},
				Substeps: workflow.Steps{
					{Action: "Check", Outputs: []string{"score"}},
				},
			},
		},
	}
	updated := workflow.Detail{
		Name: "flow",
		Steps: workflow.Steps{
			{
				Actor:    "Sales",
				Action:   "Review",
				Substeps: workflow.Steps{{Action: "Check"}, {Action: "New"}},
			},
			{Actor: "Ops", Action: "Provision"},
		},
	}

	once := workflow.Patch(original, updated)
	twice := workflow.Patch(original, once)

	assert.Equal(t, once, twice)
}

func TestPatchDoesNotAlias(t *testing.T) {
	original := workflow.Detail{
		Steps: workflow.Steps{{
			Action: "Review",
			Inputs: []string{"lead"},
			Extra:  map[string]any{"meta": map[string]any{"k": "v"}},
		}},
	}
	updated := workflow.Detail{
		Steps: workflow.Steps{{
			Action:   "Review",
			Outputs:  []string{"report"},
			Substeps: workflow.NoSteps(),
		}},
	}

	got := workflow.Patch(original, updated)

	got.Steps[0].Outputs[0] = "changed"
	got.Steps[0].Inputs[0] = "changed"
	got.Steps[0].Extra["meta"].(map[string]any)["k"] = "changed"

	assert.Equal(t, "report", updated.Steps[0].Outputs[0])
	assert.Equal(t, "lead", original.Steps[0].Inputs[0])
	assert.Equal(t, "v", original.Steps[0].Extra["meta"].(map[string]any)["k"])
	assert.True(t, got.Steps[0].Substeps.Present())
}

func TestPatchedTreeRevalidates(t *testing.T) {
	d, err := workflow.UnmarshalDetail([]byte(`{"name":"n","steps":[{"actor":"A","action":"x"}]}`))
	require.NoError(t, err)

	data, err := json.Marshal(workflow.Patch(d, d))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"actors":[]`)

	_, err = workflow.UnmarshalDetail(data)
	require.NoError(t, err)

	data, err = json.Marshal(workflow.Detail{Name: "bare"})
	require.NoError(t, err)
	_, err = workflow.UnmarshalDetail(data)
	assert.NoError(t, err)
}
