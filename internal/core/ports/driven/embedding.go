package driven

import "context"

// EmbeddingService generates vector embeddings from text. The same
// signature works whether the backend is a hosted API (OpenAI, Hugging
// Face Inference) or locally hosted (Ollama); the concrete service is
// chosen at construction time via the model registry.
//
// Note: this is separate from VectorStore, which stores and searches
// vectors. EmbeddingService generates them.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, one vector per
	// input, order-preserving.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768, 1536).
	// This is determined by the model and must match the collection it
	// writes into.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
