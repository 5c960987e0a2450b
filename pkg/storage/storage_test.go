package storage_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderman400/AIArchitect/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func newSystem(t *testing.T) storage.System {
	t.Helper()
	sys, err := storage.New(&storage.Config{
		ContainerName:    "documents",
		ConnectionString: azuriteConnString,
	}, slog.Default())
	require.NoError(t, err)
	return sys
}

func TestNewReturnsSystem(t *testing.T) {
	assert.NotNil(t, newSystem(t))
}

func TestNewInvalidConnectionString(t *testing.T) {
	_, err := storage.New(&storage.Config{
		ContainerName:    "documents",
		ConnectionString: "not-a-connection-string",
	}, slog.Default())
	assert.Error(t, err)
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"empty key", storage.ErrEmptyKey, http.StatusBadRequest},
		{"invalid key", storage.ErrInvalidKey, http.StatusBadRequest},
		{"invalid limit", storage.ErrInvalidLimit, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("operation failed: %w", storage.ErrNotFound), http.StatusNotFound},
		{"unknown", fmt.Errorf("unexpected failure"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, storage.MapHTTPStatus(tt.err))
		})
	}
}

func TestKeyValidation(t *testing.T) {
	sys := newSystem(t)

	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"empty key", "", storage.ErrEmptyKey},
		{"path traversal", "projects/../secrets/key", storage.ErrInvalidKey},
		{"double dot in middle", "projects/..hidden/file.pdf", storage.ErrInvalidKey},
	}

	ctx := t.Context()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sys.Upload(ctx, tt.key, bytes.NewReader(nil), "application/pdf")
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = sys.Download(ctx, tt.key)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.ErrorIs(t, sys.Delete(ctx, tt.key), tt.wantErr)

			_, err = sys.Exists(ctx, tt.key)
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = sys.List(ctx, tt.key)
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = sys.DeletePrefix(ctx, tt.key)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
