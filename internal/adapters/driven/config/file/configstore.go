package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/fathom-labs/fathom-cli/internal/chunker"
	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

// DefaultTopK is the retrieval depth used when the config does not set
// one.
const DefaultTopK = 4

// Config holds persisted user defaults. Zero values mean "use the
// built-in default".
type Config struct {
	Defaults  DefaultsConfig  `toml:"defaults"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

// DefaultsConfig selects the providers and models used when flags are
// absent.
type DefaultsConfig struct {
	ChatProvider      string `toml:"chat_provider"`
	ChatModel         string `toml:"chat_model"`
	EmbeddingProvider string `toml:"embedding_provider"`
	EmbeddingModel    string `toml:"embedding_model"`
}

// ChunkingConfig overrides the document splitter parameters.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig overrides similarity search parameters.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// ChatProvider returns the configured chat provider or the built-in
// default.
func (c *Config) ChatProvider() domain.AIProvider {
	if c.Defaults.ChatProvider == "" {
		return domain.AIProviderOpenAI
	}
	return domain.AIProvider(c.Defaults.ChatProvider)
}

// EmbeddingProvider returns the configured embedding provider or the
// built-in default.
func (c *Config) EmbeddingProvider() domain.AIProvider {
	if c.Defaults.EmbeddingProvider == "" {
		return domain.AIProviderOpenAI
	}
	return domain.AIProvider(c.Defaults.EmbeddingProvider)
}

// ChunkSize returns the configured chunk size or the splitter default.
func (c *Config) ChunkSize() int {
	if c.Chunking.Size <= 0 {
		return chunker.DefaultChunkSize
	}
	return c.Chunking.Size
}

// ChunkOverlap returns the configured overlap or the splitter default.
func (c *Config) ChunkOverlap() int {
	if c.Chunking.Overlap <= 0 {
		return chunker.DefaultChunkOverlap
	}
	return c.Chunking.Overlap
}

// TopK returns the configured retrieval depth or DefaultTopK.
func (c *Config) TopK() int {
	if c.Retrieval.TopK <= 0 {
		return DefaultTopK
	}
	return c.Retrieval.TopK
}

// ConfigStore persists Config as TOML in the fathom config directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	config   Config
}

// NewConfigStore creates a TOML-based config store. If configDir is
// empty, defaults to ~/.fathom.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".fathom")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns a copy of the current configuration.
func (s *ConfigStore) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Update applies fn to the configuration and persists the result.
func (s *ConfigStore) Update(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.config)
	return s.save()
}

// Load reads configuration from disk. A missing file starts empty.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.config = Config{}
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", s.filePath, err)
	}
	s.config = cfg
	return nil
}

// save writes configuration to disk (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
