package driven

import (
	"context"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

// VectorStore persists chunk vectors plus text and supports incremental
// insertion and top-k similarity retrieval. Collections are keyed by
// (embedding provider, logical name); adding more chunks to an existing
// collection never requires re-embedding previously stored ones.
type VectorStore interface {
	// CreateCollection creates a collection. It is idempotent when called
	// with identical model and dimensions; it fails with
	// domain.ErrCollectionConflict when an existing collection with the
	// same key has a different model or dimensionality.
	CreateCollection(ctx context.Context, key domain.CollectionKey, model string, dimensions int) error

	// Get returns collection metadata, or nil (not an error) if no
	// collection exists for the key.
	Get(ctx context.Context, key domain.CollectionKey) (*domain.CollectionInfo, error)

	// AddChunks persists chunks with their embedding vectors, one vector
	// per chunk, preserving insertion order. Fails with
	// domain.ErrStoreNotInitialized if the collection does not exist.
	AddChunks(ctx context.Context, key domain.CollectionKey, chunks []domain.Chunk, vectors [][]float32) error

	// Search returns the k stored chunks most similar to the query
	// vector, ties broken by original insertion order. Fails with
	// domain.ErrStoreNotInitialized if the collection does not exist.
	Search(ctx context.Context, key domain.CollectionKey, query []float32, k int) ([]VectorHit, error)

	// List enumerates all persisted collections.
	List(ctx context.Context) ([]domain.CollectionInfo, error)

	// Close releases resources.
	Close() error
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Similarity is the cosine similarity score.
	Similarity float64
}
