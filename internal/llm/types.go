package llm

import (
	"context"
)

// Client issues one text completion against an external model.
type Client interface {
	// Complete sends a prompt and returns the model's text output.
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// Options tune a single completion call.
type Options struct {
	// Temperature of the sampling; zero means the provider default.
	Temperature float64
	// JSONOutput asks the provider for a JSON-only response where the
	// provider supports a JSON mode. The caller still owns the strict
	// decode of whatever comes back.
	JSONOutput bool
}
