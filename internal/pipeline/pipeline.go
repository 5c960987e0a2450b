package pipeline

import (
	"context"
	"fmt"
	"time"
)

// Execute runs every stage for one input: the input is validated, then
// summarized, expanded into a workflow tree, and enriched. The unenriched tree
// and the enriched copy are both returned.
func Execute(ctx context.Context, rt *Runtime, in Input) (*Result, error) {
	if err := ValidateInput(in, &rt.Agent); err != nil {
		return nil, err
	}

	summary, err := Summarize(ctx, rt, in)
	if err != nil {
		return nil, err
	}

	detail, fixes, err := Detail(ctx, rt, summary)
	if err != nil {
		return nil, err
	}

	enriched, err := Enrich(ctx, rt, detail)
	if err != nil {
		return nil, fmt.Errorf("enrich %s: %w", detail.Name, err)
	}

	return &Result{
		Summary:     summary,
		Detail:      detail,
		Enriched:    enriched,
		Fixes:       fixes,
		CompletedAt: time.Now(),
	}, nil
}
