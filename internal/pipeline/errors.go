package pipeline

import "errors"

// Pipeline errors. Stage failures wrap the underlying model or parse error.
var (
	ErrEmptyInput         = errors.New("no texts or attachments provided")
	ErrAttachmentRejected = errors.New("attachment rejected")
	ErrSummarizeFailed    = errors.New("summarize stage failed")
	ErrParseFailed        = errors.New("model output is not a valid workflow")
	ErrEnrichFailed       = errors.New("enrich stage failed")
	ErrNoResponse         = errors.New("model returned no choices")
	ErrModelFailed        = errors.New("model request failed")
)
