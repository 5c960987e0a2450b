package pipeline

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// generate sends one human message to the model and returns the first choice.
func generate(ctx context.Context, rt *Runtime, parts ...llms.ContentPart) (string, error) {
	if d := rt.Agent.TimeoutDuration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	msgs := []llms.MessageContent{{Role: llms.ChatMessageTypeHuman, Parts: parts}}

	resp, err := rt.Model.GenerateContent(ctx, msgs, llms.WithTemperature(rt.Agent.Temperature))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrModelFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoResponse
	}
	return resp.Choices[0].Content, nil
}
