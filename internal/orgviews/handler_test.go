package orgviews_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderman400/AIArchitect/internal/orgviews"
	"github.com/coderman400/AIArchitect/internal/pipeline"
	"github.com/coderman400/AIArchitect/pkg/auth"
	"github.com/coderman400/AIArchitect/pkg/routes"
	"github.com/coderman400/AIArchitect/workflow"
)

type mockSystem struct {
	generateFn     func(ctx context.Context, owner uuid.UUID, cmd orgviews.GenerateCommand) (*orgviews.View, error)
	findFn         func(ctx context.Context, owner, projectID uuid.UUID) (*orgviews.OrgView, error)
	updateGraphFn  func(ctx context.Context, owner, projectID uuid.UUID, cmd orgviews.GraphCommand) (*orgviews.View, error)
	updateTreeFn   func(ctx context.Context, owner, projectID uuid.UUID, cmd orgviews.TreeCommand) (*orgviews.View, error)
	enrichFn       func(ctx context.Context, owner, projectID uuid.UUID) (*orgviews.View, error)
	integrationsFn func(ctx context.Context, owner, projectID uuid.UUID) ([]orgviews.Integration, error)
}

func (m *mockSystem) Handler(maxUploadSize int64) *orgviews.Handler {
	return orgviews.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)), maxUploadSize)
}

func (m *mockSystem) Generate(ctx context.Context, owner uuid.UUID, cmd orgviews.GenerateCommand) (*orgviews.View, error) {
	return m.generateFn(ctx, owner, cmd)
}

func (m *mockSystem) Find(ctx context.Context, owner, projectID uuid.UUID) (*orgviews.OrgView, error) {
	return m.findFn(ctx, owner, projectID)
}

func (m *mockSystem) Retrieve(ctx context.Context, owner, projectID uuid.UUID) (*orgviews.View, error) {
	ov, err := m.findFn(ctx, owner, projectID)
	if err != nil {
		return nil, err
	}
	return orgviews.NewView(ov, sequentialIDs()), nil
}

func (m *mockSystem) UpdateGraph(ctx context.Context, owner, projectID uuid.UUID, cmd orgviews.GraphCommand) (*orgviews.View, error) {
	return m.updateGraphFn(ctx, owner, projectID, cmd)
}

func (m *mockSystem) UpdateTree(ctx context.Context, owner, projectID uuid.UUID, cmd orgviews.TreeCommand) (*orgviews.View, error) {
	return m.updateTreeFn(ctx, owner, projectID, cmd)
}

func (m *mockSystem) Enrich(ctx context.Context, owner, projectID uuid.UUID) (*orgviews.View, error) {
	return m.enrichFn(ctx, owner, projectID)
}

func (m *mockSystem) Regenerate(ctx context.Context, owner, projectID uuid.UUID) (*orgviews.View, error) {
	return m.enrichFn(ctx, owner, projectID)
}

func (m *mockSystem) Integrations(ctx context.Context, owner, projectID uuid.UUID) ([]orgviews.Integration, error) {
	return m.integrationsFn(ctx, owner, projectID)
}

var owner = uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")

func serve(sys *mockSystem, maxUpload int64, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(maxUpload).Routes())

	req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{Subject: owner.String()}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

type part struct {
	field       string
	filename    string
	contentType string
	data        string
}

func multipartRequest(t *testing.T, fields map[string][]string, files []part) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(name, v))
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/orgview/generate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandlerGenerate(t *testing.T) {
	projectID := uuid.New()

	var captured orgviews.GenerateCommand
	sys := &mockSystem{
		generateFn: func(_ context.Context, o uuid.UUID, cmd orgviews.GenerateCommand) (*orgviews.View, error) {
			assert.Equal(t, owner, o)
			captured = cmd
			return orgviews.NewView(&orgviews.OrgView{ID: uuid.New(), ProjectID: projectID, Tree: sampleTree()}, sequentialIDs()), nil
		},
	}

	req := multipartRequest(t,
		map[string][]string{
			"project_name": {"Invoice approval"},
			"texts":        {"Finance reviews invoices", "  "},
		},
		[]part{
			{field: "images", filename: "board.png", contentType: "application/octet-stream", data: "\x89PNG\r\n\x1a\nrest"},
			{field: "pdfs", filename: "policy.pdf", contentType: "application/pdf", data: "%PDF-1.7"},
		},
	)

	rec := serve(sys, 1<<20, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, "Invoice approval", captured.ProjectName)
	assert.Equal(t, []string{"Finance reviews invoices"}, captured.Texts)
	require.Len(t, captured.Attachments, 2)
	assert.Equal(t, "image/png", captured.Attachments[0].ContentType)
	assert.Equal(t, "board.png", captured.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", captured.Attachments[1].ContentType)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Equal(t, projectID.String(), raw["project_id"])
	assert.Contains(t, raw, "org_view_id")
	assert.Contains(t, raw, "react_flow_json")
}

func TestHandlerGenerateRejects(t *testing.T) {
	sys := &mockSystem{
		generateFn: func(context.Context, uuid.UUID, orgviews.GenerateCommand) (*orgviews.View, error) {
			return nil, fmt.Errorf("generate: %w", pipeline.ErrSummarizeFailed)
		},
	}

	t.Run("missing project name", func(t *testing.T) {
		req := multipartRequest(t, map[string][]string{"texts": {"a"}}, nil)
		assert.Equal(t, http.StatusBadRequest, serve(sys, 1<<20, req).Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/orgview/generate", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusBadRequest, serve(sys, 1<<20, req).Code)
	})

	t.Run("too large", func(t *testing.T) {
		req := multipartRequest(t,
			map[string][]string{"project_name": {"big"}},
			[]part{{field: "images", filename: "big.png", contentType: "image/png", data: strings.Repeat("x", 4096)}},
		)
		assert.Equal(t, http.StatusRequestEntityTooLarge, serve(sys, 1024, req).Code)
	})

	t.Run("pipeline failure", func(t *testing.T) {
		req := multipartRequest(t, map[string][]string{"project_name": {"p"}, "texts": {"a"}}, nil)
		assert.Equal(t, http.StatusBadGateway, serve(sys, 1<<20, req).Code)
	})
}

func TestHandlerRetrieveAndTree(t *testing.T) {
	projectID := uuid.New()
	enriched := enrichedTree()
	ov := &orgviews.OrgView{ID: uuid.New(), ProjectID: projectID, Tree: sampleTree(), Enriched: &enriched, Version: 2}

	sys := &mockSystem{
		findFn: func(_ context.Context, _ uuid.UUID, id uuid.UUID) (*orgviews.OrgView, error) {
			if id != projectID {
				return nil, orgviews.ErrNotFound
			}
			return ov, nil
		},
	}

	rec := serve(sys, 0, httptest.NewRequest("GET", "/orgview/retrieve/"+projectID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var view orgviews.View
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, 2, view.Version)
	assert.Len(t, view.Graph.Nodes, 3)
	require.NotNil(t, view.AIGraph)

	rec = serve(sys, 0, httptest.NewRequest("GET", "/orgview/tree/"+projectID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var tree orgviews.TreeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tree))
	assert.Equal(t, "Invoice approval", tree.Tree.Name)
	require.NotNil(t, tree.Enriched)
	assert.Equal(t, "erp", tree.Enriched.Steps[0].Substeps[0].Type)

	rec = serve(sys, 0, httptest.NewRequest("GET", "/orgview/retrieve/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(sys, 0, httptest.NewRequest("GET", "/orgview/tree/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpdateGraph(t *testing.T) {
	projectID := uuid.New()
	stored := sampleTree()

	sys := &mockSystem{
		updateGraphFn: func(_ context.Context, _, _ uuid.UUID, cmd orgviews.GraphCommand) (*orgviews.View, error) {
			if cmd.Version != nil && *cmd.Version != 4 {
				return nil, orgviews.ErrVersionConflict
			}
			decoded, err := workflow.Decode(cmd.Graph())
			if err != nil {
				return nil, err
			}
			decoded.Name = stored.Name
			patched := workflow.Patch(stored, decoded)
			return orgviews.NewView(&orgviews.OrgView{ProjectID: projectID, Tree: patched, Version: 5}, sequentialIDs()), nil
		},
	}

	graph := workflow.Encode(stored, sequentialIDs())
	put := func(body any) *httptest.ResponseRecorder {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		return serve(sys, 0, httptest.NewRequest("PUT", "/orgview/graph/"+projectID.String(), bytes.NewReader(data)))
	}

	rec := put(map[string]any{"nodes": graph.Nodes, "edges": graph.Edges, "version": 4})
	require.Equal(t, http.StatusOK, rec.Code)
	var view orgviews.View
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, 5, view.Version)

	rec = put(map[string]any{"nodes": graph.Nodes, "edges": graph.Edges, "version": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = put(map[string]any{"nodes": []workflow.Node{{ID: "a", ParentID: "ghost", Data: workflow.NodeData{Label: "x"}}}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = put(map[string]any{"nodes": []workflow.Node{{ID: "a"}, {ID: "a"}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(sys, 0, httptest.NewRequest("PUT", "/orgview/graph/"+projectID.String(), strings.NewReader("[")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpdateTree(t *testing.T) {
	projectID := uuid.New()

	var captured orgviews.TreeCommand
	sys := &mockSystem{
		updateTreeFn: func(_ context.Context, _, _ uuid.UUID, cmd orgviews.TreeCommand) (*orgviews.View, error) {
			captured = cmd
			return orgviews.NewView(&orgviews.OrgView{ProjectID: projectID, Tree: cmd.Tree}, sequentialIDs()), nil
		},
	}

	put := func(body string) *httptest.ResponseRecorder {
		return serve(sys, 0, httptest.NewRequest("PUT", "/orgview/tree/"+projectID.String(), strings.NewReader(body)))
	}

	rec := put(`{"tree":{"name":"flow","actors":["Ops"],"steps":[{"actor":"Ops","action":"Deploy"}]},"version":7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deploy", captured.Tree.Steps[0].Action)
	require.NotNil(t, captured.Version)
	assert.Equal(t, 7, *captured.Version)

	tests := []struct {
		name string
		body string
	}{
		{"missing tree", `{"version":1}`},
		{"step without action", `{"tree":{"name":"flow","steps":[{"actor":"Ops"}]}}`},
		{"unknown field", `{"tree":{"name":"flow","steps":[],"owner":"me"}}`},
		{"malformed", `{"tree":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, put(tt.body).Code)
		})
	}
}

func TestHandlerEnrichAndIntegrations(t *testing.T) {
	projectID := uuid.New()
	enriched := enrichedTree()

	sys := &mockSystem{
		enrichFn: func(context.Context, uuid.UUID, uuid.UUID) (*orgviews.View, error) {
			return orgviews.NewView(&orgviews.OrgView{ProjectID: projectID, Tree: sampleTree(), Enriched: &enriched}, sequentialIDs()), nil
		},
		integrationsFn: func(context.Context, uuid.UUID, uuid.UUID) ([]orgviews.Integration, error) {
			return orgviews.CollectIntegrations(enriched), nil
		},
	}

	rec := serve(sys, 0, httptest.NewRequest("POST", "/orgview/enrich/"+projectID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(sys, 0, httptest.NewRequest("POST", "/orgview/regenerate/"+projectID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(sys, 0, httptest.NewRequest("GET", "/orgview/integrations/"+projectID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got orgviews.Integrations
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.NodeList, 2)
	assert.Equal(t, "erp", got.NodeList[0].Type)
}

func TestHandlerRequiresIdentity(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, (&mockSystem{}).Handler(0).Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/orgview/retrieve/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
