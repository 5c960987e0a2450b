package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/coderman400/AIArchitect/internal/prompts"
)

// ComposePrompt builds a prompt by combining tunable instructions, the
// immutable specification, and the stage input for a given pipeline stage.
// An empty input yields a prompt with only instructions and spec.
func ComposePrompt(
	ctx context.Context,
	ps Prompts,
	stage prompts.Stage,
	input string,
) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	if input != "" {
		sb.WriteString("\n\n")
		sb.WriteString(input)
	}

	return sb.String(), nil
}
