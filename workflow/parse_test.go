package workflow_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderman400/AIArchitect/workflow"
)

func rules(fixes []workflow.Fix) []string {
	out := make([]string, len(fixes))
	for i, f := range fixes {
		out[i] = f.Rule
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"minimal", `{"name":"x","steps":[]}`, false},
		{
			"full",
			`{"name":"x","actors":["A"],"steps":[{"actor":"A","action":"go","substeps":null,"type":"manual",
			"ai_recommendation":{"tool":"crm"},"inputs":["i"],"extra":{"k":1},
			"subworkflows":[{"name":"sub","steps":[]}]}],"connections":["c"]}`,
			false,
		},
		{"missing action", `{"name":"x","steps":[{"actor":"A"}]}`, true},
		{"empty action", `{"name":"x","steps":[{"actor":"A","action":""}]}`, true},
		{"missing actor", `{"name":"x","steps":[{"action":"go"}]}`, true},
		{"missing steps", `{"name":"x"}`, true},
		{"unknown key", `{"name":"x","steps":[],"owner":"me"}`, true},
		{"inputs not strings", `{"name":"x","steps":[],"inputs":[1]}`, true},
		{"substeps object", `{"name":"x","steps":[{"actor":"","action":"a","substeps":{"actor":"","action":"b"}}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc any
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &doc))

			err := workflow.Validate(doc)
			if tt.wantErr {
				require.ErrorIs(t, err, workflow.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUnmarshalDetail(t *testing.T) {
	d, err := workflow.UnmarshalDetail([]byte(`{
		"name": "onboarding",
		"actors": ["HR"],
		"steps": [
			{"actor": "HR", "action": "Collect documents", "substeps": []},
			{"actor": "IT", "action": "Issue laptop"}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "onboarding", d.Name)
	require.Len(t, d.Steps, 2)
	assert.True(t, d.Steps[0].Substeps.Present())
	assert.Empty(t, d.Steps[0].Substeps)
	assert.False(t, d.Steps[1].Substeps.Present())

	_, err = workflow.UnmarshalDetail([]byte(`{"name":"x","steps":[{"actor":"A"}]}`))
	assert.ErrorIs(t, err, workflow.ErrValidation)
}

func TestStepsJSONKeepsAbsentAndEmptyApart(t *testing.T) {
	d := workflow.Detail{
		Name: "x",
		Steps: workflow.Steps{
			{Action: "leaf"},
			{Action: "empty", Substeps: workflow.NoSteps()},
		},
	}

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var raw struct {
		Steps []map[string]any `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.NotContains(t, raw.Steps[0], "substeps")
	assert.Equal(t, []any{}, raw.Steps[1]["substeps"])
}

func TestParseStrict(t *testing.T) {
	content := "```json\n" + `{"name":"Hiring","actors":["HR"],"steps":[{"actor":"HR","action":"Post job"}]}` + "\n```"

	d, fixes, err := workflow.Parse([]byte(content), "fallback")
	require.NoError(t, err)

	assert.Empty(t, fixes)
	assert.Equal(t, "Hiring", d.Name)
	assert.Equal(t, "Post job", d.Steps[0].Action)
}

func TestParseRepairs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		rules   []string
		check   func(t *testing.T, d workflow.Detail)
	}{
		{
			"missing actor",
			`{"name":"x","actors":[],"steps":[{"action":"go"}]}`,
			[]string{workflow.RuleActorDefault},
			func(t *testing.T, d workflow.Detail) {
				assert.Equal(t, "", d.Steps[0].Actor)
				assert.Equal(t, "go", d.Steps[0].Action)
			},
		},
		{
			"string step",
			`{"name":"x","actors":[],"steps":["Send invoice"]}`,
			[]string{workflow.RuleStepFromString},
			func(t *testing.T, d workflow.Detail) {
				assert.Equal(t, workflow.Step{Action: "Send invoice"}, d.Steps[0])
			},
		},
		{
			"single substep object",
			`{"name":"x","actors":[],"steps":[{"actor":"A","action":"a","substeps":{"actor":"A","action":"b"}}]}`,
			[]string{workflow.RuleWrapSubsteps},
			func(t *testing.T, d workflow.Detail) {
				require.Len(t, d.Steps[0].Substeps, 1)
				assert.Equal(t, "b", d.Steps[0].Substeps[0].Action)
			},
		},
		{
			"drops step without action",
			`{"name":"x","actors":[],"steps":[{"actor":"A"},{"actor":"B","action":"b"}]}`,
			[]string{workflow.RuleDropEmptyAction},
			func(t *testing.T, d workflow.Detail) {
				require.Len(t, d.Steps, 1)
				assert.Equal(t, "B", d.Steps[0].Actor)
			},
		},
		{
			"stringifies list entries",
			`{"name":"x","actors":[],"steps":[],"inputs":[1,"form",true]}`,
			[]string{workflow.RuleStringify, workflow.RuleStringify},
			func(t *testing.T, d workflow.Detail) {
				assert.Equal(t, []string{"1", "form", "true"}, d.Inputs)
			},
		},
		{
			"wraps scalar list",
			`{"name":"x","actors":[],"steps":[],"outputs":"report"}`,
			[]string{workflow.RuleWrapList},
			func(t *testing.T, d workflow.Detail) {
				assert.Equal(t, []string{"report"}, d.Outputs)
			},
		},
		{
			"fallback name and derived actors",
			`{"steps":[{"actor":"Ops","action":"a"},{"actor":"Ops","action":"b"},{"actor":"QA","action":"c"}]}`,
			[]string{workflow.RuleNameFallback, workflow.RuleDeriveActors},
			func(t *testing.T, d workflow.Detail) {
				assert.Equal(t, "fallback", d.Name)
				assert.Equal(t, []string{"Ops", "QA"}, d.Actors)
			},
		},
		{
			"renames aliases",
			`{"name":"x","actors":[],"steps":[{"role":"Ops","task":"deploy","children":[{"actor":"Ops","action":"test"}]}]}`,
			[]string{workflow.RuleRenameKey, workflow.RuleRenameKey, workflow.RuleRenameKey},
			func(t *testing.T, d workflow.Detail) {
				assert.Equal(t, "Ops", d.Steps[0].Actor)
				assert.Equal(t, "deploy", d.Steps[0].Action)
				require.Len(t, d.Steps[0].Substeps, 1)
			},
		},
		{
			"second substeps alias moves to extra",
			`{"name":"x","actors":[],"steps":[{"actor":"A","action":"a","children":[{"actor":"A","action":"c1"}],"sub_steps":[{"actor":"A","action":"s1"}]}]}`,
			[]string{workflow.RuleRenameKey, workflow.RuleMoveToExtra},
			func(t *testing.T, d workflow.Detail) {
				require.Len(t, d.Steps[0].Substeps, 1)
				assert.Equal(t, "c1", d.Steps[0].Substeps[0].Action)
				assert.Contains(t, d.Steps[0].Extra, "sub_steps")
			},
		},
		{
			"description stands in for action",
			`{"name":"x","actors":[],"steps":[{"actor":"Ops","description":"deploy"}]}`,
			[]string{workflow.RuleRenameKey},
			func(t *testing.T, d workflow.Detail) {
				assert.Equal(t, "deploy", d.Steps[0].Action)
			},
		},
		{
			"unknown keys move to extra",
			`{"name":"x","actors":[],"steps":[{"actor":"A","action":"a","duration":"2d"}],"owner":"ops"}`,
			[]string{workflow.RuleMoveToExtra, workflow.RuleMoveToExtra},
			func(t *testing.T, d workflow.Detail) {
				assert.Equal(t, map[string]any{"owner": "ops"}, d.Extra)
				assert.Equal(t, map[string]any{"duration": "2d"}, d.Steps[0].Extra)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, fixes, err := workflow.Parse([]byte(tt.content), "fallback")
			require.NoError(t, err)

			assert.ElementsMatch(t, tt.rules, rules(fixes))
			tt.check(t, d)
		})
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "I could not produce a workflow."},
		{"array document", `[{"actor":"A","action":"a"}]`},
		{"null document", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := workflow.Parse([]byte(tt.content), "x")
			require.ErrorIs(t, err, workflow.ErrValidation)
		})
	}
}

func TestRepairDoesNotModifyInput(t *testing.T) {
	doc := map[string]any{
		"steps": []any{map[string]any{"action": "a", "extra": map[string]any{"k": "v"}, "note": "n"}},
	}

	repaired, _ := workflow.Repair(doc, "flow")

	step := doc["steps"].([]any)[0].(map[string]any)
	assert.NotContains(t, step, "actor")
	assert.Equal(t, map[string]any{"k": "v"}, step["extra"])
	assert.NotContains(t, doc, "name")

	require.NoError(t, workflow.Validate(repaired))
}

func TestSchemaIsJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal(workflow.Schema(), &v))
	assert.True(t, strings.HasSuffix(v["$id"].(string), "workflow.json"))
}
