package services

import (
	"fmt"
	"sort"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

// ModelKind distinguishes the chat and embedding model catalogues.
type ModelKind string

// Available model kinds.
const (
	ModelKindChat      ModelKind = "chat"
	ModelKindEmbedding ModelKind = "embedding"
)

// Selection is a validated (provider, model, credential) triple ready
// for adapter construction. Dimensions is set for embedding selections
// only.
type Selection struct {
	Kind       ModelKind
	Provider   domain.AIProvider
	Model      string
	APIKey     string
	Dimensions int
}

// chatModels lists the supported chat models per provider. The first
// entry is the provider default.
var chatModels = map[domain.AIProvider][]string{
	domain.AIProviderOpenAI: {
		"gpt-4o-mini",
		"gpt-5-2025-08-07",
		"gpt-5-mini-2025-08-07",
		"gpt-5-nano-2025-08-07",
	},
	domain.AIProviderGroq: {
		"llama-3.1-8b-instant",
		"llama-3.3-70b-versatile",
		"openai/gpt-oss-120b",
		"openai/gpt-oss-20b",
	},
	domain.AIProviderOllama: {
		"llama3.2",
		"llama3.1",
		"mistral",
		"qwen2.5",
	},
}

// embeddingModels lists the supported embedding models and their vector
// dimensions per provider.
var embeddingModels = map[domain.AIProvider]map[string]int{
	domain.AIProviderOpenAI: {
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	},
	domain.AIProviderHuggingFace: {
		"sentence-transformers/all-MiniLM-L6-v2":  384,
		"sentence-transformers/all-mpnet-base-v2": 768,
		"BAAI/bge-small-en-v1.5":                  384,
	},
	domain.AIProviderOllama: {
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
	},
}

// defaultEmbeddingModel is the per-provider default.
var defaultEmbeddingModel = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:      "text-embedding-3-small",
	domain.AIProviderHuggingFace: "sentence-transformers/all-MiniLM-L6-v2",
	domain.AIProviderOllama:      "nomic-embed-text",
}

// Registry resolves provider/model selections against the supported
// catalogues. It is pure: no network clients are created and
// credentials come from the value passed at construction, never from
// ad-hoc environment reads.
type Registry struct {
	creds domain.Credentials
}

// NewRegistry creates a model registry with the given credentials.
func NewRegistry(creds domain.Credentials) *Registry {
	return &Registry{creds: creds}
}

// Resolve validates a provider/model pair for the given kind and
// resolves its credential. An empty model selects the provider default.
// explicitKey wins over the startup credentials.
func (r *Registry) Resolve(kind ModelKind, provider domain.AIProvider, model, explicitKey string) (Selection, error) {
	if !provider.IsValid() {
		return Selection{}, fmt.Errorf("%w: unknown provider %q", domain.ErrUnsupportedModel, provider)
	}

	sel := Selection{Kind: kind, Provider: provider}

	switch kind {
	case ModelKindChat:
		supported, ok := chatModels[provider]
		if !ok {
			return Selection{}, fmt.Errorf("%w: provider %s has no chat models", domain.ErrUnsupportedModel, provider)
		}
		if model == "" {
			model = supported[0]
		}
		if !contains(supported, model) {
			return Selection{}, fmt.Errorf("%w: %s is not a supported %s chat model", domain.ErrUnsupportedModel, model, provider)
		}
		sel.Model = model

	case ModelKindEmbedding:
		supported, ok := embeddingModels[provider]
		if !ok {
			return Selection{}, fmt.Errorf("%w: provider %s has no embedding models", domain.ErrUnsupportedModel, provider)
		}
		if model == "" {
			model = defaultEmbeddingModel[provider]
		}
		dims, ok := supported[model]
		if !ok {
			return Selection{}, fmt.Errorf("%w: %s is not a supported %s embedding model", domain.ErrUnsupportedModel, model, provider)
		}
		sel.Model = model
		sel.Dimensions = dims

	default:
		return Selection{}, fmt.Errorf("%w: unknown model kind %q", domain.ErrUnsupportedModel, kind)
	}

	if provider.RequiresAPIKey() {
		key := explicitKey
		if key == "" {
			key = r.creds.ForProvider(provider)
		}
		if key == "" {
			return Selection{}, fmt.Errorf("%w: no API key for %s", domain.ErrMissingCredential, provider)
		}
		sel.APIKey = key
	}

	return sel, nil
}

// ChatModels returns the supported chat models for a provider, default
// first.
func ChatModels(provider domain.AIProvider) []string {
	models := chatModels[provider]
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// EmbeddingModels returns the supported embedding models for a
// provider, sorted, default first.
func EmbeddingModels(provider domain.AIProvider) []string {
	catalogue := embeddingModels[provider]
	if len(catalogue) == 0 {
		return nil
	}

	def := defaultEmbeddingModel[provider]
	rest := make([]string, 0, len(catalogue)-1)
	for model := range catalogue {
		if model != def {
			rest = append(rest, model)
		}
	}
	sort.Strings(rest)
	return append([]string{def}, rest...)
}

func contains(models []string, model string) bool {
	for _, m := range models {
		if m == model {
			return true
		}
	}
	return false
}
