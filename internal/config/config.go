package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/coderman400/AIArchitect/pkg/auth"
	"github.com/coderman400/AIArchitect/pkg/database"
	"github.com/coderman400/AIArchitect/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvEnv             = "AIARCHITECT_ENV"
	EnvShutdownTimeout = "AIARCHITECT_SHUTDOWN_TIMEOUT"
	EnvVersion         = "AIARCHITECT_VERSION"
)

var databaseEnv = &database.Env{
	DSN:             "AIARCHITECT_DB_DSN",
	Host:            "AIARCHITECT_DB_HOST",
	Port:            "AIARCHITECT_DB_PORT",
	Name:            "AIARCHITECT_DB_NAME",
	User:            "AIARCHITECT_DB_USER",
	Password:        "AIARCHITECT_DB_PASSWORD",
	SSLMode:         "AIARCHITECT_DB_SSL_MODE",
	MaxOpenConns:    "AIARCHITECT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "AIARCHITECT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "AIARCHITECT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "AIARCHITECT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "AIARCHITECT_STORAGE_CONTAINER_NAME",
	ConnectionString: "AIARCHITECT_STORAGE_CONNECTION_STRING",
	AccountURL:       "AIARCHITECT_STORAGE_ACCOUNT_URL",
	MaxListSize:      "AIARCHITECT_STORAGE_MAX_LIST_SIZE",
}

var authEnv = &auth.Env{
	Secret:       "AIARCHITECT_AUTH_SECRET",
	Issuer:       "AIARCHITECT_AUTH_ISSUER",
	TokenTTL:     "AIARCHITECT_AUTH_TOKEN_TTL",
	OIDCIssuer:   "AIARCHITECT_AUTH_OIDC_ISSUER",
	OIDCJWKSURL:  "AIARCHITECT_AUTH_OIDC_JWKS_URL",
	OIDCClientID: "AIARCHITECT_AUTH_OIDC_CLIENT_ID",
}

// Config is the root configuration for the AIArchitect service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Agent           AgentConfig     `toml:"agent"`
	Auth            auth.Config     `toml:"auth"`
	Logging         LoggingConfig   `toml:"logging"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the AIARCHITECT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Agent.Merge(&overlay.Agent)
	c.Auth.Merge(&overlay.Auth)
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"agent", c.Agent.Finalize},
		{"auth", func() error { return c.Auth.Finalize(authEnv) }},
		{"logging", c.Logging.Finalize},
	}
	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	// A generation request holds its connection for at least one model call.
	if write, call := c.Server.WriteTimeoutDuration(), c.Agent.TimeoutDuration(); write < call {
		return fmt.Errorf("server write_timeout %s is shorter than agent timeout %s", write, call)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

// load decodes path strictly so a misspelled key fails startup instead of
// silently falling back to a default.
func load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("parse config %s: %s", path, strict.String())
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
