package pipeline

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/coderman400/AIArchitect/internal/prompts"
	"github.com/coderman400/AIArchitect/workflow"
)

// Detail expands a summary into a workflow tree. Model output goes through
// strict validation and, when needed, one documented repair pass.
func Detail(ctx context.Context, rt *Runtime, s Summary) (workflow.Detail, []workflow.Fix, error) {
	input := fmt.Sprintf("Workflow summary:\nName: %s\nDescription: %s", s.Name, s.Description)

	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageDetail, input)
	if err != nil {
		return workflow.Detail{}, nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	content, err := generate(ctx, rt, llms.TextPart(prompt))
	if err != nil {
		return workflow.Detail{}, nil, fmt.Errorf("detail stage: %w", err)
	}

	d, fixes, err := workflow.Parse([]byte(content), s.Name)
	for _, f := range fixes {
		rt.Logger.WarnContext(ctx, "repaired model output", "path", f.Path, "rule", f.Rule)
	}
	if err != nil {
		return workflow.Detail{}, fixes, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	rt.Logger.InfoContext(ctx, "detail stage complete", "name", d.Name, "steps", d.Count(), "fixes", len(fixes))
	return d, fixes, nil
}
