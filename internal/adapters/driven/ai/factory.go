// Package ai provides factory functions for creating AI service
// adapters from validated registry selections.
package ai

import (
	"fmt"

	hfembed "github.com/fathom-labs/fathom-cli/internal/adapters/driven/embedding/huggingface"
	ollamaembed "github.com/fathom-labs/fathom-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/fathom-labs/fathom-cli/internal/adapters/driven/embedding/openai"
	groqllm "github.com/fathom-labs/fathom-cli/internal/adapters/driven/llm/groq"
	ollamallm "github.com/fathom-labs/fathom-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/fathom-labs/fathom-cli/internal/adapters/driven/llm/openai"
	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
	"github.com/fathom-labs/fathom-cli/internal/core/services"
)

// CreateLLMService creates the chat service for a resolved selection.
func CreateLLMService(sel services.Selection) (driven.LLMService, error) {
	if sel.Kind != services.ModelKindChat {
		return nil, fmt.Errorf("%w: selection %s/%s is not a chat model", domain.ErrUnsupportedModel, sel.Provider, sel.Model)
	}

	switch sel.Provider {
	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey: sel.APIKey,
			Model:  sel.Model,
		})

	case domain.AIProviderGroq:
		return groqllm.NewLLMService(groqllm.LLMConfig{
			APIKey: sel.APIKey,
			Model:  sel.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			Model: sel.Model,
		}), nil

	default:
		return nil, fmt.Errorf("%w: no chat adapter for provider %s", domain.ErrUnsupportedModel, sel.Provider)
	}
}

// CreateEmbeddingService creates the embedding service for a resolved
// selection.
func CreateEmbeddingService(sel services.Selection) (driven.EmbeddingService, error) {
	if sel.Kind != services.ModelKindEmbedding {
		return nil, fmt.Errorf("%w: selection %s/%s is not an embedding model", domain.ErrUnsupportedModel, sel.Provider, sel.Model)
	}

	switch sel.Provider {
	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     sel.APIKey,
			Model:      sel.Model,
			Dimensions: sel.Dimensions,
		})

	case domain.AIProviderHuggingFace:
		return hfembed.NewEmbeddingService(hfembed.Config{
			APIKey:     sel.APIKey,
			Model:      sel.Model,
			Dimensions: sel.Dimensions,
		})

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			Model:      sel.Model,
			Dimensions: sel.Dimensions,
		}), nil

	default:
		return nil, fmt.Errorf("%w: no embedding adapter for provider %s", domain.ErrUnsupportedModel, sel.Provider)
	}
}
