package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"golang.org/x/sync/errgroup"

	"github.com/coderman400/AIArchitect/internal/prompts"
	"github.com/coderman400/AIArchitect/pkg/formatting"
	"github.com/coderman400/AIArchitect/workflow"
)

// Enrich classifies every step of d into an integration type and attaches a
// recommendation. Steps are classified concurrently up to the configured
// limit and the results are written into a copy of d. A step whose
// classification fails is logged and left unannotated; cancellation aborts
// the stage.
func Enrich(ctx context.Context, rt *Runtime, d workflow.Detail) (workflow.Detail, error) {
	enriched := d.Clone()

	var steps []*workflow.Step
	enriched.Walk(func(s *workflow.Step, _ int) bool {
		steps = append(steps, s)
		return true
	})

	instructions, err := ComposePrompt(ctx, rt.Prompts, prompts.StageEnrich, "")
	if err != nil {
		return workflow.Detail{}, fmt.Errorf("%w: %w", ErrEnrichFailed, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(rt.Agent.Concurrency, 1))

	for i, step := range steps {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			e, err := enrichStep(gctx, rt, instructions, enriched.Name, step)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				rt.Logger.WarnContext(gctx, "step enrichment failed", "index", i, "action", step.Action, "error", err)
				return nil
			}

			step.Type = string(e.Type)
			if e.Recommendation != "" {
				step.AIRecommendation = e.Recommendation
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return workflow.Detail{}, fmt.Errorf("%w: %w", ErrEnrichFailed, err)
	}

	rt.Logger.InfoContext(ctx, "enrich stage complete", "steps", len(steps))
	return enriched, nil
}

func enrichStep(ctx context.Context, rt *Runtime, instructions, name string, step *workflow.Step) (Enrichment, error) {
	var sb strings.Builder
	sb.WriteString(instructions)
	fmt.Fprintf(&sb, "\n\nWorkflow: %s\nActor: %s\nAction: %s", name, step.Actor, step.Action)

	content, err := generate(ctx, rt, llms.TextPart(sb.String()))
	if err != nil {
		return Enrichment{}, err
	}

	e, err := formatting.Parse[Enrichment](content)
	if err != nil {
		return Enrichment{}, err
	}

	e.Type = IntegrationType(strings.ToLower(strings.TrimSpace(string(e.Type))))
	if !e.Type.Valid() {
		e.Type = IntegrationCustom
	}
	if e.Type == IntegrationManual {
		e.Recommendation = ""
	}
	return e, nil
}
