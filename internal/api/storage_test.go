package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderman400/AIArchitect/internal/projects"
	"github.com/coderman400/AIArchitect/pkg/auth"
	"github.com/coderman400/AIArchitect/pkg/routes"
	"github.com/coderman400/AIArchitect/pkg/storage"
)

type stubProjects struct {
	projects.System
	owned map[uuid.UUID]uuid.UUID
}

func (s *stubProjects) Find(_ context.Context, owner, id uuid.UUID) (*projects.Project, error) {
	if s.owned[id] != owner {
		return nil, projects.ErrNotFound
	}
	return &projects.Project{ID: id, UserID: owner}, nil
}

type stubStorage struct {
	storage.System
	blobs  []storage.BlobInfo
	prefix string
}

func (s *stubStorage) List(_ context.Context, prefix string) ([]storage.BlobInfo, error) {
	s.prefix = prefix
	return s.blobs, nil
}

func TestStorageList(t *testing.T) {
	owner := uuid.New()
	project := uuid.New()

	store := &stubStorage{blobs: []storage.BlobInfo{
		{Key: "projects/" + project.String() + "/a/one.pdf", Size: 10},
		{Key: "projects/" + project.String() + "/b/two.png", Size: 20},
		{Key: "projects/" + project.String() + "/c/three.txt", Size: 30},
	}}
	h := newStorageHandler(store, &stubProjects{owned: map[uuid.UUID]uuid.UUID{project: owner}}, slog.New(slog.DiscardHandler), 2)

	mux := http.NewServeMux()
	routes.Register(mux, h.routes())

	tests := []struct {
		name       string
		identity   *auth.Identity
		path       string
		status     int
		wantPrefix string
		wantCount  int
	}{
		{"owner lists blobs", &auth.Identity{Subject: owner.String()}, "/storage/projects/" + project.String(), http.StatusOK, projects.StoragePrefix(project), 2},
		{"max results narrows", &auth.Identity{Subject: owner.String()}, "/storage/projects/" + project.String() + "?max_results=1", http.StatusOK, projects.StoragePrefix(project), 1},
		{"prefix filter", &auth.Identity{Subject: owner.String()}, "/storage/projects/" + project.String() + "?prefix=a/", http.StatusOK, projects.StoragePrefix(project) + "a/", 2},
		{"invalid max results", &auth.Identity{Subject: owner.String()}, "/storage/projects/" + project.String() + "?max_results=0", http.StatusBadRequest, "", 0},
		{"other owner", &auth.Identity{Subject: uuid.NewString()}, "/storage/projects/" + project.String(), http.StatusNotFound, "", 0},
		{"bad id", &auth.Identity{Subject: owner.String()}, "/storage/projects/nope", http.StatusBadRequest, "", 0},
		{"no identity", nil, "/storage/projects/" + project.String(), http.StatusUnauthorized, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.prefix = ""
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.identity != nil {
				req = req.WithContext(auth.WithIdentity(req.Context(), tt.identity))
			}
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}

			assert.Equal(t, tt.wantPrefix, store.prefix)

			var got []storage.BlobInfo
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Len(t, got, tt.wantCount)
		})
	}
}
