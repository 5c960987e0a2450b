package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/coderman400/AIArchitect/pkg/formatting"
	"github.com/coderman400/AIArchitect/pkg/middleware"
	"github.com/coderman400/AIArchitect/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "AIARCHITECT_CORS_ENABLED",
	Origins:          "AIARCHITECT_CORS_ORIGINS",
	AllowedMethods:   "AIARCHITECT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "AIARCHITECT_CORS_ALLOWED_HEADERS",
	AllowCredentials: "AIARCHITECT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "AIARCHITECT_CORS_MAX_AGE",
}

var paginationEnv = &pagination.Env{
	DefaultPageSize: "AIARCHITECT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "AIARCHITECT_PAGINATION_MAX_PAGE_SIZE",
}

const (
	EnvAPIBasePath      = "AIARCHITECT_API_BASE_PATH"
	EnvAPIMaxUploadSize = "AIARCHITECT_API_MAX_UPLOAD_SIZE"

	defaultMaxUploadSize = "50MB"
)

// APIConfig holds API routing, CORS, and pagination settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes. Finalize has already
// rejected sizes that do not parse.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.Merge(&APIConfig{
		BasePath:      os.Getenv(EnvAPIBasePath),
		MaxUploadSize: os.Getenv(EnvAPIMaxUploadSize),
	})

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = defaultMaxUploadSize
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.HasSuffix(c.BasePath, "/") {
		return fmt.Errorf("base_path %q must start and not end with /", c.BasePath)
	}
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}
