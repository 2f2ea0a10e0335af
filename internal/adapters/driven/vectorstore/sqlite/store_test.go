package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func testKey() domain.CollectionKey {
	return domain.CollectionKey{Provider: domain.AIProviderOpenAI, Name: "news-store"}
}

func chunk(id, content string, position int) domain.Chunk {
	return domain.Chunk{
		ID:         id,
		DocumentID: "doc-1",
		Content:    content,
		Position:   position,
		Metadata:   map[string]any{"format": "text"},
	}
}

func TestCreateCollection_Idempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCollection(ctx, testKey(), "text-embedding-3-small", 3))
	require.NoError(t, store.CreateCollection(ctx, testKey(), "text-embedding-3-small", 3))

	info, err := store.Get(ctx, testKey())
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "text-embedding-3-small", info.Model)
	assert.Equal(t, 3, info.Dimensions)
	assert.Equal(t, 0, info.ChunkCount)
}

func TestCreateCollection_Conflict(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCollection(ctx, testKey(), "text-embedding-3-small", 3))

	err := store.CreateCollection(ctx, testKey(), "text-embedding-3-small", 4)
	assert.ErrorIs(t, err, domain.ErrCollectionConflict)

	err = store.CreateCollection(ctx, testKey(), "text-embedding-3-large", 3)
	assert.ErrorIs(t, err, domain.ErrCollectionConflict)
}

func TestGet_AbsentIsNil(t *testing.T) {
	store, _ := newTestStore(t)

	info, err := store.Get(context.Background(), testKey())
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestAddChunks_WithoutCollection(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.AddChunks(context.Background(), testKey(),
		[]domain.Chunk{chunk("c1", "hello", 0)}, [][]float32{{1, 0, 0}})
	assert.ErrorIs(t, err, domain.ErrStoreNotInitialized)
}

func TestAddChunks_VectorCountMismatch(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, testKey(), "m", 3))

	err := store.AddChunks(ctx, testKey(),
		[]domain.Chunk{chunk("c1", "hello", 0), chunk("c2", "world", 1)},
		[][]float32{{1, 0, 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddChunks_DimensionMismatch(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, testKey(), "m", 3))

	err := store.AddChunks(ctx, testKey(),
		[]domain.Chunk{chunk("c1", "hello", 0)}, [][]float32{{1, 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, testKey(), "m", 3))

	chunks := []domain.Chunk{
		chunk("c1", "orthogonal", 0),
		chunk("c2", "exact match", 1),
		chunk("c3", "close", 2),
	}
	vectors := [][]float32{
		{0, 1, 0},
		{1, 0, 0},
		{0.9, 0.1, 0},
	}
	require.NoError(t, store.AddChunks(ctx, testKey(), chunks, vectors))

	hits, err := store.Search(ctx, testKey(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "c2", hits[0].Chunk.ID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	assert.Equal(t, "c3", hits[1].Chunk.ID)
	assert.Equal(t, "text", hits[0].Chunk.Metadata["format"])
}

func TestSearch_TiesBreakByInsertionOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, testKey(), "m", 3))

	// Identical vectors: identical scores, insertion order must win.
	chunks := []domain.Chunk{
		chunk("first", "a", 0),
		chunk("second", "b", 1),
		chunk("third", "c", 2),
	}
	vectors := [][]float32{
		{1, 0, 0},
		{1, 0, 0},
		{1, 0, 0},
	}
	require.NoError(t, store.AddChunks(ctx, testKey(), chunks, vectors))

	hits, err := store.Search(ctx, testKey(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "first", hits[0].Chunk.ID)
	assert.Equal(t, "second", hits[1].Chunk.ID)
	assert.Equal(t, "third", hits[2].Chunk.ID)
}

func TestSearch_WithoutCollection(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Search(context.Background(), testKey(), []float32{1, 0, 0}, 3)
	assert.ErrorIs(t, err, domain.ErrStoreNotInitialized)
}

func TestList(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCollection(ctx, testKey(), "m", 3))
	other := domain.CollectionKey{Provider: domain.AIProviderOllama, Name: "video-store"}
	require.NoError(t, store.CreateCollection(ctx, other, "nomic-embed-text", 3))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, other, infos[0].Key)
	assert.Equal(t, testKey(), infos[1].Key)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.CreateCollection(ctx, testKey(), "m", 3))
	require.NoError(t, store.AddChunks(ctx, testKey(),
		[]domain.Chunk{chunk("c1", "survives restart", 0)}, [][]float32{{0.5, 0.5, 0}}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	info, err := reopened.Get(ctx, testKey())
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 1, info.ChunkCount)

	hits, err := reopened.Search(ctx, testKey(), []float32{0.5, 0.5, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "survives restart", hits[0].Chunk.Content)
}
