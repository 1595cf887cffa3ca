package domain

import "context"

// CompletionRequest is a JSON-mode chat completion call.
type CompletionRequest struct {
	// Op names the pipeline operation issuing the call (classify, extract),
	// used for logging and metrics labels.
	Op string
	// System is the system prompt; empty means no system message.
	System string
	// User is the user prompt.
	User string
	// Temperature controls sampling.
	Temperature float32
}

// Completer issues chat completions that must return a JSON object body.
type Completer interface {
	// CompleteJSON returns the raw message content. An empty string with a
	// nil error means the provider returned no body; callers decide how to
	// substitute it.
	CompleteJSON(ctx context.Context, req CompletionRequest) (string, error)
}

// HealthChecker verifies external provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
