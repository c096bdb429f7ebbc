package knowledge

import (
	"context"
	"fmt"
)

// Embedder turns text into vectors in the corpus embedding space
type Embedder interface {
	// Embed generates the embedding vector for a single input text
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch generates one vector per input, in input order
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension reports the vector width of the model, 0 when unknown
	Dimension() int
}

// LLMProvider generates chat completions for summarization
type LLMProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest describes a single chat completion call. History is
// attached before the prompt, oldest first.
type CompletionRequest struct {
	System      string
	History     []Turn
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// RemoteError wraps a failure from an external model provider. The API
// layer maps it to a service-unavailable response; calls are never retried.
type RemoteError struct {
	Provider string
	Op       string
	Err      error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
