package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for chat or embeddings.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is the Groq cloud API (OpenAI-compatible wire format).
	AIProviderGroq AIProvider = "groq"

	// AIProviderHuggingFace is the Hugging Face Inference API.
	AIProviderHuggingFace AIProvider = "huggingface"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderGroq, AIProviderHuggingFace, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderHuggingFace:
		return "Hugging Face (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// Verbosity selects the wording of summarisation prompts.
// It changes prompt text only, never control flow.
type Verbosity string

// Available summary verbosities.
const (
	VerbosityConcise  Verbosity = "concise"
	VerbosityDetailed Verbosity = "detailed"
)

// IsValid returns true if the verbosity is recognised.
func (v Verbosity) IsValid() bool {
	return v == VerbosityConcise || v == VerbosityDetailed
}

// String returns the string representation.
func (v Verbosity) String() string {
	return string(v)
}

// Credentials holds provider API keys, loaded once at process start and
// passed explicitly to the model registry. Never read from the
// environment after startup.
type Credentials struct {
	OpenAIKey      string
	GroqKey        string
	HuggingFaceKey string
}

// ForProvider returns the credential for the given provider, or an empty
// string if the provider needs none or none is configured.
func (c Credentials) ForProvider(p AIProvider) string {
	switch p {
	case AIProviderOpenAI:
		return c.OpenAIKey
	case AIProviderGroq:
		return c.GroqKey
	case AIProviderHuggingFace:
		return c.HuggingFaceKey
	default:
		return ""
	}
}
