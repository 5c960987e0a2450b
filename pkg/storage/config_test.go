package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderman400/AIArchitect/pkg/storage"
)

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr bool
	}{
		{"connection string", storage.Config{ConnectionString: "UseDevelopmentStorage=true"}, false},
		{"account url", storage.Config{AccountURL: "https://acct.blob.core.windows.net"}, false},
		{"no credentials", storage.Config{}, true},
		{"uppercase container", storage.Config{ContainerName: "Docs", ConnectionString: "a"}, true},
		{"double hyphen container", storage.Config{ContainerName: "my--docs", ConnectionString: "a"}, true},
		{"short container", storage.Config{ContainerName: "ab", ConnectionString: "a"}, true},
		{"negative list size", storage.Config{ConnectionString: "a", MaxListSize: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "documents", tt.cfg.ContainerName)
			assert.Equal(t, int32(50), tt.cfg.MaxListSize)
		})
	}
}

func TestConfigEnv(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "uploads")
	t.Setenv("TEST_ACCOUNT_URL", "https://acct.blob.core.windows.net")
	t.Setenv("TEST_MAX_LIST", "999999")

	cfg := storage.Config{}
	require.NoError(t, cfg.Finalize(&storage.Env{
		ContainerName: "TEST_CONTAINER",
		AccountURL:    "TEST_ACCOUNT_URL",
		MaxListSize:   "TEST_MAX_LIST",
	}))

	assert.Equal(t, "uploads", cfg.ContainerName)
	assert.Equal(t, "https://acct.blob.core.windows.net", cfg.AccountURL)
	assert.Equal(t, storage.MaxListCap, cfg.MaxListSize)
}

func TestConfigMerge(t *testing.T) {
	cfg := storage.Config{ContainerName: "documents", ConnectionString: "a"}
	cfg.Merge(&storage.Config{ContainerName: "uploads", AccountURL: "https://acct"})

	assert.Equal(t, "uploads", cfg.ContainerName)
	assert.Equal(t, "a", cfg.ConnectionString)
	assert.Equal(t, "https://acct", cfg.AccountURL)
}
