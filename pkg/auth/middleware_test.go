package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderman400/AIArchitect/pkg/auth"
)

type staticVerifier map[string]*auth.Identity

func (v staticVerifier) Verify(_ context.Context, raw string) (*auth.Identity, error) {
	if raw == "" {
		return nil, auth.ErrMissingToken
	}
	if id, ok := v[raw]; ok {
		return id, nil
	}
	return nil, auth.ErrInvalidToken
}

func TestMiddleware(t *testing.T) {
	v := staticVerifier{"good": {Subject: "user-1", Email: "ada@example.com"}}

	var seen *auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := auth.Middleware(v, discard(), "/auth/login", "/health")(next)

	tests := []struct {
		name     string
		method   string
		path     string
		header   string
		want     int
		identity bool
	}{
		{"valid token", "GET", "/projects", "Bearer good", http.StatusNoContent, true},
		{"lowercase scheme", "GET", "/projects", "bearer good", http.StatusNoContent, true},
		{"missing header", "GET", "/projects", "", http.StatusUnauthorized, false},
		{"unknown token", "GET", "/projects", "Bearer bad", http.StatusUnauthorized, false},
		{"basic scheme", "GET", "/projects", "Basic good", http.StatusUnauthorized, false},
		{"public path", "POST", "/auth/login", "", http.StatusNoContent, false},
		{"public prefix is not substring", "GET", "/healthcheck", "", http.StatusUnauthorized, false},
		{"preflight", "OPTIONS", "/projects", "", http.StatusNoContent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
			assert.Equal(t, tt.identity, seen != nil)
		})
	}
}

func TestFromContextEmpty(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	assert.False(t, ok)
}

func TestUserID(t *testing.T) {
	uid := uuid.New()

	tests := []struct {
		name    string
		ctx     context.Context
		wantErr error
	}{
		{"local", auth.WithIdentity(context.Background(), &auth.Identity{Subject: uid.String()}), nil},
		{"missing", context.Background(), auth.ErrMissingToken},
		{"external", auth.WithIdentity(context.Background(), &auth.Identity{Subject: "google|1", External: true}), auth.ErrInvalidToken},
		{"not a uuid", auth.WithIdentity(context.Background(), &auth.Identity{Subject: "42"}), auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.UserID(tt.ctx)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uid, got)
		})
	}
}
