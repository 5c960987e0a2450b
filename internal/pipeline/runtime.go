package pipeline

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/coderman400/AIArchitect/internal/config"
	"github.com/coderman400/AIArchitect/internal/prompts"
)

// Prompts resolves the instructions and output spec for a stage.
// prompts.System satisfies it.
type Prompts interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
	Spec(ctx context.Context, stage prompts.Stage) (string, error)
}

// Runtime bundles the dependencies that pipeline stages require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Agent   config.AgentConfig
	Model   llms.Model
	Prompts Prompts
	Logger  *slog.Logger
}
