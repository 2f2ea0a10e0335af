package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathom-labs/fathom-cli/internal/chunker"
	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
)

func textDocument(content string) domain.Document {
	return domain.Document{
		ID:      "doc-1",
		Source:  "notes.txt",
		Kind:    domain.SourceText,
		Title:   "notes",
		Content: content,
		Metadata: map[string]any{
			"format":  "text",
			"dropped": struct{}{},
		},
		CreatedAt: time.Now(),
	}
}

func newIngestFixture(t *testing.T, loader driven.Loader) (*IngestService, *mockStore, *mockEmbedder) {
	t.Helper()
	splitter, err := chunker.New(40, 5)
	require.NoError(t, err)

	store := newMockStore()
	embedder := newMockEmbedder()
	library := NewLibrary(store, embedder, domain.AIProviderOpenAI)

	loaders := map[domain.SourceKind]driven.Loader{loader.Kind(): loader}
	return NewIngestService(loaders, splitter, library), store, embedder
}

func TestIngest_Success(t *testing.T) {
	loader := &mockLoader{
		kind: domain.SourceText,
		docs: []domain.Document{textDocument("First paragraph of notes.\n\nSecond paragraph, a bit longer than one chunk.")},
	}
	svc, store, embedder := newIngestFixture(t, loader)

	report, err := svc.Ingest(context.Background(), "notes.txt", domain.SourceText, "my-notes")
	require.NoError(t, err)

	assert.Equal(t, domain.CollectionKey{Provider: domain.AIProviderOpenAI, Name: "my-notes"}, report.Collection)
	assert.Equal(t, 1, report.Documents)
	assert.Greater(t, report.Chunks, 1)

	stored := store.chunks[report.Collection]
	require.Len(t, stored, report.Chunks)
	assert.Len(t, embedder.batches, 1)
	assert.Len(t, embedder.batches[0], report.Chunks)

	// Metadata is sanitised before storage.
	assert.Equal(t, "text", stored[0].Metadata["format"])
	assert.NotContains(t, stored[0].Metadata, "dropped")
}

func TestIngest_DefaultCollectionPerKind(t *testing.T) {
	loader := &mockLoader{
		kind: domain.SourceArticle,
		docs: []domain.Document{{ID: "a1", Kind: domain.SourceArticle, Content: "short article"}},
	}
	svc, _, _ := newIngestFixture(t, loader)

	report, err := svc.Ingest(context.Background(), "https://example.com/story", domain.SourceArticle, "")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceArticle.DefaultCollection(), report.Collection.Name)
}

func TestIngest_AppendsToExistingCollection(t *testing.T) {
	loader := &mockLoader{
		kind: domain.SourceText,
		docs: []domain.Document{{ID: "d1", Kind: domain.SourceText, Content: "more notes"}},
	}
	svc, store, _ := newIngestFixture(t, loader)

	_, err := svc.Ingest(context.Background(), "a.txt", domain.SourceText, "shared")
	require.NoError(t, err)
	created := store.createCalls

	_, err = svc.Ingest(context.Background(), "b.txt", domain.SourceText, "shared")
	require.NoError(t, err)

	// Existence is checked explicitly, so no second create is attempted.
	assert.Equal(t, created, store.createCalls)
	key := domain.CollectionKey{Provider: domain.AIProviderOpenAI, Name: "shared"}
	assert.Len(t, store.chunks[key], 2)
}

func TestIngest_ModelConflict(t *testing.T) {
	loader := &mockLoader{
		kind: domain.SourceText,
		docs: []domain.Document{{ID: "d1", Kind: domain.SourceText, Content: "notes"}},
	}
	svc, store, _ := newIngestFixture(t, loader)

	key := domain.CollectionKey{Provider: domain.AIProviderOpenAI, Name: "old"}
	require.NoError(t, store.CreateCollection(context.Background(), key, "different-model", 3))

	_, err := svc.Ingest(context.Background(), "a.txt", domain.SourceText, "old")
	assert.ErrorIs(t, err, domain.ErrCollectionConflict)
}

func TestIngest_LoaderFailure(t *testing.T) {
	loader := &mockLoader{kind: domain.SourceText, err: errors.New("file unreadable")}
	svc, _, _ := newIngestFixture(t, loader)

	_, err := svc.Ingest(context.Background(), "a.txt", domain.SourceText, "c")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIngestion)
	assert.Contains(t, err.Error(), "file unreadable")
}

func TestIngest_InvalidInput(t *testing.T) {
	loader := &mockLoader{kind: domain.SourceText}
	svc, _, _ := newIngestFixture(t, loader)

	_, err := svc.Ingest(context.Background(), "  ", domain.SourceText, "c")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(context.Background(), "a.txt", domain.SourceKind("audio"), "c")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngest_NoLoaderForKind(t *testing.T) {
	loader := &mockLoader{kind: domain.SourceText}
	svc, _, _ := newIngestFixture(t, loader)

	_, err := svc.Ingest(context.Background(), "clip", domain.SourceVideo, "c")
	assert.ErrorIs(t, err, domain.ErrIngestion)
}
