package driven

import (
	"context"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

// LLMService provides chat completion regardless of backend.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini, gpt-5 family)
//   - Groq (hosted open-weight models, OpenAI-compatible API)
//   - Ollama (local models)
//
// Implementations perform no retries; transport, auth and rate-limit
// failures wrap domain.ErrGeneration and the caller decides what to do.
type LLMService interface {
	// Generate produces a text completion from a single prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []domain.Turn, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens caps the length of the generated text only, never the
	// prompt. Backends map this to their transport-specific parameter.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
