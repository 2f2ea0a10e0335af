package domain

import "time"

// CollectionKey identifies a vector store collection. Collections are
// partitioned by the embedding provider that produced their vectors so
// that vectors from different providers are never mixed.
type CollectionKey struct {
	// Provider is the embedding provider that owns this collection.
	Provider AIProvider

	// Name is the logical collection name chosen by the caller.
	Name string
}

// String returns the stored collection identifier, mirroring the
// "<provider>-<name>" naming used for persisted collections.
func (k CollectionKey) String() string {
	return k.Provider.String() + "-" + k.Name
}

// CollectionInfo describes a persisted collection.
type CollectionInfo struct {
	// Key identifies the collection.
	Key CollectionKey

	// Model is the embedding model that produced every vector in the
	// collection. All vectors in one collection share it.
	Model string

	// Dimensions is the embedding vector size.
	Dimensions int

	// ChunkCount is the number of stored chunks.
	ChunkCount int

	// CreatedAt is when the collection was first created.
	CreatedAt time.Time
}
