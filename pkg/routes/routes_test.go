package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coderman400/AIArchitect/pkg/routes"
)

func echo(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(name + ":" + r.PathValue("id")))
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/orgview",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/retrieve/{id}", Handler: echo("retrieve")},
			{Method: "PUT", Pattern: "/graph/{id}", Handler: echo("graph")},
		},
		Children: []routes.Group{{
			Prefix: "/tree",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/{id}", Handler: echo("tree")},
			},
		}},
	})

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{"GET", "/orgview/retrieve/p1", http.StatusOK, "retrieve:p1"},
		{"PUT", "/orgview/graph/p2", http.StatusOK, "graph:p2"},
		{"GET", "/orgview/tree/p3", http.StatusOK, "tree:p3"},
		{"POST", "/orgview/retrieve/p1", http.StatusMethodNotAllowed, ""},
		{"GET", "/orgview/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestPatterns(t *testing.T) {
	g := routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: echo("list")},
			{Method: "POST", Pattern: "/{id}/activate", Handler: echo("activate")},
			{Pattern: "/any", Handler: echo("any")},
		},
		Children: []routes.Group{{
			Prefix: "/stages",
			Routes: []routes.Route{{Method: "GET", Pattern: "/{stage}", Handler: echo("stage")}},
		}},
	}

	assert.Equal(t, []string{
		"GET /prompts",
		"POST /prompts/{id}/activate",
		"/prompts/any",
		"GET /prompts/stages/{stage}",
	}, g.Patterns())

	mux := http.NewServeMux()
	routes.Register(mux, g)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/prompts/any", nil))
	assert.Equal(t, "any:", rec.Body.String())
}
