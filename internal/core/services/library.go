package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
	"github.com/fathom-labs/fathom-cli/internal/logger"
)

// Library binds one embedding service to the vector store. All
// collections it touches are keyed by the embedder's provider, so
// vectors from different providers never mix.
type Library struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
	provider domain.AIProvider
}

// NewLibrary creates a library over the given store and embedder.
func NewLibrary(store driven.VectorStore, embedder driven.EmbeddingService, provider domain.AIProvider) *Library {
	return &Library{
		store:    store,
		embedder: embedder,
		provider: provider,
	}
}

// Key returns the collection key for a logical name.
func (l *Library) Key(name string) domain.CollectionKey {
	return domain.CollectionKey{Provider: l.provider, Name: name}
}

// EnsureCollection creates the collection if it does not exist yet. The
// choice between adding and creating is an explicit existence check; an
// existing collection with a different model or dimensionality is a
// conflict.
func (l *Library) EnsureCollection(ctx context.Context, name string) (domain.CollectionKey, error) {
	key := l.Key(name)

	info, err := l.store.Get(ctx, key)
	if err != nil {
		return key, fmt.Errorf("check collection %s: %w", key.String(), err)
	}
	if info != nil {
		if info.Model != l.embedder.ModelName() || info.Dimensions != l.embedder.Dimensions() {
			return key, fmt.Errorf("%w: collection %s was built with %s (%d dims), embedder is %s (%d dims)",
				domain.ErrCollectionConflict, key.String(),
				info.Model, info.Dimensions, l.embedder.ModelName(), l.embedder.Dimensions())
		}
		logger.Debug("collection %s exists with %d chunks", key.String(), info.ChunkCount)
		return key, nil
	}

	logger.Debug("creating collection %s (model %s, %d dims)", key.String(), l.embedder.ModelName(), l.embedder.Dimensions())
	if err := l.store.CreateCollection(ctx, key, l.embedder.ModelName(), l.embedder.Dimensions()); err != nil {
		return key, err
	}
	return key, nil
}

// Add embeds the chunks and persists them. Previously stored chunks are
// never re-embedded.
func (l *Library) Add(ctx context.Context, name string, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	key := l.Key(name)

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	start := time.Now()
	vectors, err := l.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d chunks for %s: %w", len(chunks), key.String(), err)
	}
	logger.Timing("embed batch", time.Since(start).Milliseconds())

	return l.store.AddChunks(ctx, key, chunks, vectors)
}

// Retrieve embeds the query with the library's own embedder and returns
// the top-k most similar chunks.
func (l *Library) Retrieve(ctx context.Context, name, query string, k int) ([]driven.VectorHit, error) {
	key := l.Key(name)

	vector, err := l.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query for %s: %w", key.String(), err)
	}

	hits, err := l.store.Search(ctx, key, vector, k)
	if err != nil {
		return nil, err
	}
	logger.Debug("retrieved %d/%d chunks from %s", len(hits), k, key.String())
	return hits, nil
}

// Info returns metadata for a named collection, nil when absent.
func (l *Library) Info(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	return l.store.Get(ctx, l.Key(name))
}
