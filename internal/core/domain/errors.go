package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrUnsupportedModel indicates a model name is not in the provider's
	// supported set. The registry never substitutes a default silently.
	ErrUnsupportedModel = errors.New("unsupported model")

	// ErrMissingCredential indicates no API key was supplied explicitly and
	// none was found in the environment for the selected provider.
	ErrMissingCredential = errors.New("missing credential")

	// ErrIngestion indicates a source could not be fetched or parsed.
	// It always wraps the underlying loader failure.
	ErrIngestion = errors.New("ingestion failed")

	// ErrEmbeddingBackend indicates a transport or auth failure talking to
	// the embedding service. The caller decides whether to retry.
	ErrEmbeddingBackend = errors.New("embedding backend failure")

	// ErrGeneration indicates a transport, auth or rate-limit failure from
	// the chat model. The caller decides whether to surface or retry.
	ErrGeneration = errors.New("generation failed")

	// ErrCollectionConflict indicates an existing collection has a
	// different embedding model or dimensionality than requested.
	ErrCollectionConflict = errors.New("collection conflict")

	// ErrStoreNotInitialized indicates an operation on a collection that
	// has not been created or loaded yet.
	ErrStoreNotInitialized = errors.New("store not initialized")

	// ErrRetrievalQA indicates question answering could not run because
	// the bound collection is empty or uninitialised.
	ErrRetrievalQA = errors.New("retrieval QA unavailable")

	// ErrInvalidInput indicates malformed or missing caller input.
	ErrInvalidInput = errors.New("invalid input")
)
