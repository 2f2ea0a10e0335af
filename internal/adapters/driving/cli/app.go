package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fathom-labs/fathom-cli/internal/adapters/driven/ai"
	"github.com/fathom-labs/fathom-cli/internal/adapters/driven/config/file"
	"github.com/fathom-labs/fathom-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/fathom-labs/fathom-cli/internal/chunker"
	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driving"
	"github.com/fathom-labs/fathom-cli/internal/core/services"
	"github.com/fathom-labs/fathom-cli/internal/loaders"
	"github.com/fathom-labs/fathom-cli/internal/logger"
)

// Builders are variables so command tests can substitute doubles.
// Each returns the service, a cleanup releasing its resources, and an
// error.
var (
	buildIngestor    = newIngestor
	buildSummariser  = newSummariser
	buildAnswerer    = newAnswerer
	buildBlogWriter  = newBlogWriter
	buildVectorStore = newVectorStore
)

// fathomDir resolves the configuration directory, honouring the
// --config-dir flag.
func fathomDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".fathom"), nil
}

// loadSetup reads the persisted configuration and the provider
// credentials.
func loadSetup() (*file.ConfigStore, domain.Credentials, error) {
	dir, err := fathomDir()
	if err != nil {
		return nil, domain.Credentials{}, err
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, domain.Credentials{}, err
	}
	return store, file.LoadCredentials(dir), nil
}

// chatService resolves and constructs the chat backend, flags winning
// over persisted defaults.
func chatService(cfg file.Config, creds domain.Credentials) (driven.LLMService, error) {
	provider := cfg.ChatProvider()
	if chatProvider != "" {
		provider = domain.AIProvider(chatProvider)
	}
	model := cfg.Defaults.ChatModel
	if chatModel != "" {
		model = chatModel
	}

	sel, err := services.NewRegistry(creds).Resolve(services.ModelKindChat, provider, model, apiKeyOverride)
	if err != nil {
		return nil, err
	}
	logger.Debug("chat backend: %s/%s", sel.Provider, sel.Model)
	return ai.CreateLLMService(sel)
}

// embeddingService resolves and constructs the embedding backend.
func embeddingService(cfg file.Config, creds domain.Credentials) (driven.EmbeddingService, domain.AIProvider, error) {
	provider := cfg.EmbeddingProvider()
	if embedProvider != "" {
		provider = domain.AIProvider(embedProvider)
	}
	model := cfg.Defaults.EmbeddingModel
	if embedModel != "" {
		model = embedModel
	}

	sel, err := services.NewRegistry(creds).Resolve(services.ModelKindEmbedding, provider, model, apiKeyOverride)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("embedding backend: %s/%s (%d dims)", sel.Provider, sel.Model, sel.Dimensions)
	svc, err := ai.CreateEmbeddingService(sel)
	if err != nil {
		return nil, "", err
	}
	return svc, sel.Provider, nil
}

// promptStore opens the user-editable prompt directory.
func promptStore() (*file.PromptStore, error) {
	dir, err := fathomDir()
	if err != nil {
		return nil, err
	}
	return file.NewPromptStore(filepath.Join(dir, "prompts"))
}

// ingestPipeline bundles everything an ingestion run needs.
type ingestPipeline struct {
	service  *services.IngestService
	library  *services.Library
	embedder driven.EmbeddingService
	store    *sqlite.Store
}

func newIngestPipeline() (*ingestPipeline, error) {
	cfgStore, creds, err := loadSetup()
	if err != nil {
		return nil, err
	}
	cfg := cfgStore.Config()

	embedder, provider, err := embeddingService(cfg, creds)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		embedder.Close() //nolint:errcheck
		return nil, err
	}

	splitter, err := chunker.New(cfg.ChunkSize(), cfg.ChunkOverlap())
	if err != nil {
		embedder.Close() //nolint:errcheck
		store.Close()    //nolint:errcheck
		return nil, err
	}

	library := services.NewLibrary(store, embedder, provider)
	return &ingestPipeline{
		service:  services.NewIngestService(loaders.Defaults(), splitter, library),
		library:  library,
		embedder: embedder,
		store:    store,
	}, nil
}

func (p *ingestPipeline) close() {
	p.embedder.Close() //nolint:errcheck
	p.store.Close()    //nolint:errcheck
}

func newIngestor() (driving.Ingestor, func(), error) {
	pipeline, err := newIngestPipeline()
	if err != nil {
		return nil, nil, err
	}
	return pipeline.service, pipeline.close, nil
}

func newSummariser() (driving.Summariser, func(), error) {
	cfgStore, creds, err := loadSetup()
	if err != nil {
		return nil, nil, err
	}

	pipeline, err := newIngestPipeline()
	if err != nil {
		return nil, nil, err
	}

	llm, err := chatService(cfgStore.Config(), creds)
	if err != nil {
		pipeline.close()
		return nil, nil, err
	}

	prompts, err := promptStore()
	if err != nil {
		llm.Close() //nolint:errcheck
		pipeline.close()
		return nil, nil, err
	}

	cleanup := func() {
		prompts.Close() //nolint:errcheck
		llm.Close()     //nolint:errcheck
		pipeline.close()
	}
	return services.NewSummariseService(pipeline.service, llm, prompts), cleanup, nil
}

func newAnswerer(collection string, topK int) (driving.Answerer, func(), error) {
	cfgStore, creds, err := loadSetup()
	if err != nil {
		return nil, nil, err
	}
	cfg := cfgStore.Config()
	if topK <= 0 {
		topK = cfg.TopK()
	}

	embedder, provider, err := embeddingService(cfg, creds)
	if err != nil {
		return nil, nil, err
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		embedder.Close() //nolint:errcheck
		return nil, nil, err
	}

	llm, err := chatService(cfg, creds)
	if err != nil {
		embedder.Close() //nolint:errcheck
		store.Close()    //nolint:errcheck
		return nil, nil, err
	}

	prompts, err := promptStore()
	if err != nil {
		llm.Close()      //nolint:errcheck
		embedder.Close() //nolint:errcheck
		store.Close()    //nolint:errcheck
		return nil, nil, err
	}
	// Prompt edits take effect mid-session.
	if err := prompts.Watch(); err != nil {
		logger.Warn("prompt watcher unavailable: %v", err)
	}

	library := services.NewLibrary(store, embedder, provider)
	cleanup := func() {
		prompts.Close()  //nolint:errcheck
		llm.Close()      //nolint:errcheck
		embedder.Close() //nolint:errcheck
		store.Close()    //nolint:errcheck
	}
	return services.NewQAService(library, llm, prompts, collection, topK), cleanup, nil
}

func newBlogWriter() (driving.BlogWriter, func(), error) {
	cfgStore, creds, err := loadSetup()
	if err != nil {
		return nil, nil, err
	}

	llm, err := chatService(cfgStore.Config(), creds)
	if err != nil {
		return nil, nil, err
	}

	prompts, err := promptStore()
	if err != nil {
		llm.Close() //nolint:errcheck
		return nil, nil, err
	}

	cleanup := func() {
		prompts.Close() //nolint:errcheck
		llm.Close()     //nolint:errcheck
	}
	return services.NewBlogService(llm, prompts), cleanup, nil
}

func newVectorStore() (driven.VectorStore, func(), error) {
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		store.Close() //nolint:errcheck
	}
	return store, cleanup, nil
}
