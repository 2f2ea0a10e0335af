package file

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

// Environment variable names for provider credentials.
const (
	EnvOpenAIKey      = "OPENAI_API_KEY"
	EnvGroqKey        = "GROQ_API_KEY"
	EnvHuggingFaceKey = "HF_API_KEY"
)

// LoadCredentials reads provider API keys from the environment, first
// merging a .env file from the working directory and the config
// directory if either exists. Real environment variables win over .env
// entries. Called once at startup; the resulting value is passed
// explicitly from then on.
func LoadCredentials(configDir string) domain.Credentials {
	// godotenv never overrides variables already set.
	_ = godotenv.Load()
	if configDir != "" {
		_ = godotenv.Load(filepath.Join(configDir, ".env"))
	}

	return domain.Credentials{
		OpenAIKey:      os.Getenv(EnvOpenAIKey),
		GroqKey:        os.Getenv(EnvGroqKey),
		HuggingFaceKey: os.Getenv(EnvHuggingFaceKey),
	}
}
