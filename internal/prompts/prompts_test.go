package prompts_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderman400/AIArchitect/internal/prompts"
	"github.com/coderman400/AIArchitect/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", prompts.ErrNotFound, http.StatusNotFound},
		{"duplicate", prompts.ErrDuplicate, http.StatusConflict},
		{"invalid stage", prompts.ErrInvalidStage, http.StatusBadRequest},
		{"invalid input", prompts.ErrInvalidInput, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", prompts.ErrNotFound), http.StatusNotFound},
		{"wrapped invalid stage", fmt.Errorf("decode failed: %w", prompts.ErrInvalidStage), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prompts.MapHTTPStatus(tt.err))
		})
	}
}

func TestStages(t *testing.T) {
	assert.Equal(t,
		[]prompts.Stage{prompts.StageSummarize, prompts.StageDetail, prompts.StageEnrich},
		prompts.Stages(),
	)
}

func TestStageUnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    prompts.Stage
		wantErr error
	}{
		{`"summarize"`, prompts.StageSummarize, nil},
		{`"detail"`, prompts.StageDetail, nil},
		{`"enrich"`, prompts.StageEnrich, nil},
		{`"classify"`, "", prompts.ErrInvalidStage},
		{`""`, "", prompts.ErrInvalidStage},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s prompts.Stage
			err := json.Unmarshal([]byte(tt.input), &s)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}

	t.Run("non-string", func(t *testing.T) {
		var s prompts.Stage
		assert.Error(t, json.Unmarshal([]byte(`42`), &s))
	})

	t.Run("struct field", func(t *testing.T) {
		var cmd prompts.CreateCommand
		err := json.Unmarshal([]byte(`{"name":"n","stage":"banana"}`), &cmd)
		assert.ErrorIs(t, err, prompts.ErrInvalidStage)
	})
}

func TestParseStage(t *testing.T) {
	got, err := prompts.ParseStage("enrich")
	require.NoError(t, err)
	assert.Equal(t, prompts.StageEnrich, got)

	for _, bad := range []string{"", "banana", "Enrich"} {
		_, err := prompts.ParseStage(bad)
		assert.ErrorIs(t, err, prompts.ErrInvalidStage, bad)
	}
}

func TestDefaults(t *testing.T) {
	for _, stage := range prompts.Stages() {
		t.Run(string(stage), func(t *testing.T) {
			text, err := prompts.Instructions(stage)
			require.NoError(t, err)
			assert.NotEmpty(t, text)

			spec, err := prompts.Spec(stage)
			require.NoError(t, err)
			assert.Contains(t, spec, "valid JSON")
		})
	}

	_, err := prompts.Instructions("banana")
	assert.ErrorIs(t, err, prompts.ErrInvalidStage)
	_, err = prompts.Spec("banana")
	assert.ErrorIs(t, err, prompts.ErrInvalidStage)
}

func TestEnrichSpecListsIntegrationTypes(t *testing.T) {
	spec, err := prompts.Spec(prompts.StageEnrich)
	require.NoError(t, err)

	for _, kind := range []string{"manual", "email", "crm", "erp", "spreadsheet", "messaging", "document", "approval", "scheduling", "custom"} {
		assert.Contains(t, spec, kind)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   prompts.Filters
	}{
		{
			"all params",
			url.Values{"stage": {"detail"}, "name": {"verbose"}, "active": {"true"}},
			prompts.Filters{Stage: ptr(prompts.StageDetail), Name: ptr("verbose"), Active: ptr(true)},
		},
		{"empty", url.Values{}, prompts.Filters{}},
		{"invalid active ignored", url.Values{"active": {"maybe"}}, prompts.Filters{}},
		{"invalid stage ignored", url.Values{"stage": {"classify"}}, prompts.Filters{}},
		{"active false", url.Values{"active": {"false"}}, prompts.Filters{Active: ptr(false)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prompts.FiltersFromQuery(tt.values))
		})
	}
}

func TestFiltersApply(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "prompts", "p").
		Project("stage", "Stage").
		Project("name", "Name").
		Project("active", "Active")

	t.Run("no filters", func(t *testing.T) {
		b := query.NewBuilder(projection)
		prompts.Filters{}.Apply(b)
		sql, args := b.Build()

		assert.Equal(t, "SELECT p.stage, p.name, p.active FROM public.prompts p", sql)
		assert.Empty(t, args)
	})

	t.Run("combined", func(t *testing.T) {
		b := query.NewBuilder(projection)
		prompts.Filters{
			Stage:  ptr(prompts.StageEnrich),
			Name:   ptr("verbose"),
			Active: ptr(false),
		}.Apply(b)
		sql, args := b.Build()

		assert.Contains(t, sql, "p.stage = $1 AND p.name ILIKE $2 AND p.active = $3")
		require.Len(t, args, 3)
		assert.Equal(t, "%verbose%", args[1])
	})
}
