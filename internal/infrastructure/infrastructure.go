// Package infrastructure assembles the shared systems the domain packages
// run on: lifecycle, logging, database, blob storage, the language model and
// authentication.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/coderman400/AIArchitect/internal/config"
	"github.com/coderman400/AIArchitect/pkg/auth"
	"github.com/coderman400/AIArchitect/pkg/database"
	"github.com/coderman400/AIArchitect/pkg/lifecycle"
	"github.com/coderman400/AIArchitect/pkg/storage"
)

// Infrastructure holds the systems every domain module is built from.
type Infrastructure struct {
	Agent     config.AgentConfig
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Model     llms.Model
	Auth      *auth.Authenticator
}

// New builds every system from cfg. Nothing dials out until Start runs the
// lifecycle hooks.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	logger := cfg.Logging.NewLogger(os.Stderr)
	infra := &Infrastructure{
		Agent:     cfg.Agent,
		Lifecycle: lifecycle.New(),
		Logger:    logger,
	}

	var err error
	if infra.Database, err = database.New(&cfg.Database, logger); err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	if infra.Storage, err = storage.New(&cfg.Storage, logger); err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}
	if infra.Model, err = NewModel(ctx, &cfg.Agent); err != nil {
		return nil, fmt.Errorf("model init failed: %w", err)
	}
	if infra.Auth, err = auth.New(ctx, &cfg.Auth, logger); err != nil {
		return nil, fmt.Errorf("auth init failed: %w", err)
	}

	logger.Info("model configured", "provider", cfg.Agent.Provider, "model", cfg.Agent.Model)
	return infra, nil
}

type modelFactory func(ctx context.Context, cfg *config.AgentConfig) (llms.Model, error)

var modelFactories = map[string]modelFactory{
	config.ProviderGoogleAI: func(ctx context.Context, cfg *config.AgentConfig) (llms.Model, error) {
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.Token),
			googleai.WithDefaultModel(cfg.Model),
		)
	},
	config.ProviderOpenAI: func(_ context.Context, cfg *config.AgentConfig) (llms.Model, error) {
		opts := []openai.Option{openai.WithToken(cfg.Token), openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)
	},
	config.ProviderAnthropic: func(_ context.Context, cfg *config.AgentConfig) (llms.Model, error) {
		opts := []anthropic.Option{anthropic.WithToken(cfg.Token), anthropic.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		return anthropic.New(opts...)
	},
}

// NewModel builds the langchaingo model for the configured provider.
func NewModel(ctx context.Context, cfg *config.AgentConfig) (llms.Model, error) {
	factory, ok := modelFactories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
	return factory(ctx, cfg)
}

// Start registers the database and storage hooks with the lifecycle.
func (i *Infrastructure) Start() error {
	systems := []struct {
		name string
		sys  interface {
			Start(*lifecycle.Coordinator) error
		}
	}{
		{"database", i.Database},
		{"storage", i.Storage},
	}
	for _, s := range systems {
		if err := s.sys.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("%s start failed: %w", s.name, err)
		}
	}
	return nil
}
