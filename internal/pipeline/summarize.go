package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/coderman400/AIArchitect/internal/prompts"
	"github.com/coderman400/AIArchitect/pkg/formatting"
)

// Summarize condenses texts and attachments into a single process summary.
func Summarize(ctx context.Context, rt *Runtime, in Input) (Summary, error) {
	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageSummarize, summarizeInput(in))
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrSummarizeFailed, err)
	}

	parts := make([]llms.ContentPart, 0, len(in.Attachments)+1)
	parts = append(parts, llms.TextPart(prompt))
	for _, a := range in.Attachments {
		parts = append(parts, llms.BinaryPart(a.ContentType, a.Data))
	}

	content, err := generate(ctx, rt, parts...)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrSummarizeFailed, err)
	}

	summary, err := formatting.Parse[Summary](content)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrSummarizeFailed, err)
	}
	if strings.TrimSpace(summary.Name) == "" {
		summary.Name = in.Name
	}

	rt.Logger.InfoContext(ctx, "summarize stage complete", "name", summary.Name)
	return summary, nil
}

func summarizeInput(in Input) string {
	var sb strings.Builder
	sb.WriteString("Business process information:\n\n")
	sb.WriteString(strings.Join(in.Texts, "\n\n"))
	if n := len(in.Attachments); n > 0 {
		fmt.Fprintf(&sb, "\n\n(%d attached files follow: images or PDFs.)", n)
	}
	return sb.String()
}
