package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
)

// mockEmbedder is a deterministic EmbeddingService test double.
type mockEmbedder struct {
	model   string
	dims    int
	err     error
	batches [][]string
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{model: "mock-embed", dims: 3}
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.batches = append(m.batches, texts)
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		// Unit vector keyed on text length keeps similarity deterministic.
		v := make([]float32, m.dims)
		v[len(text)%m.dims] = 1
		vectors[i] = v
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int   { return m.dims }
func (m *mockEmbedder) ModelName() string { return m.model }
func (m *mockEmbedder) Close() error      { return nil }

// mockStore is an in-memory VectorStore test double preserving
// insertion order.
type mockStore struct {
	collections map[domain.CollectionKey]*domain.CollectionInfo
	chunks      map[domain.CollectionKey][]domain.Chunk
	vectors     map[domain.CollectionKey][][]float32
	createCalls int
}

var _ driven.VectorStore = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		collections: make(map[domain.CollectionKey]*domain.CollectionInfo),
		chunks:      make(map[domain.CollectionKey][]domain.Chunk),
		vectors:     make(map[domain.CollectionKey][][]float32),
	}
}

func (m *mockStore) CreateCollection(_ context.Context, key domain.CollectionKey, model string, dimensions int) error {
	m.createCalls++
	if info, ok := m.collections[key]; ok {
		if info.Model != model || info.Dimensions != dimensions {
			return domain.ErrCollectionConflict
		}
		return nil
	}
	m.collections[key] = &domain.CollectionInfo{Key: key, Model: model, Dimensions: dimensions}
	return nil
}

func (m *mockStore) Get(_ context.Context, key domain.CollectionKey) (*domain.CollectionInfo, error) {
	info, ok := m.collections[key]
	if !ok {
		return nil, nil
	}
	out := *info
	out.ChunkCount = len(m.chunks[key])
	return &out, nil
}

func (m *mockStore) AddChunks(_ context.Context, key domain.CollectionKey, chunks []domain.Chunk, vectors [][]float32) error {
	if _, ok := m.collections[key]; !ok {
		return domain.ErrStoreNotInitialized
	}
	if len(chunks) != len(vectors) {
		return domain.ErrInvalidInput
	}
	m.chunks[key] = append(m.chunks[key], chunks...)
	m.vectors[key] = append(m.vectors[key], vectors...)
	return nil
}

func (m *mockStore) Search(_ context.Context, key domain.CollectionKey, query []float32, k int) ([]driven.VectorHit, error) {
	if _, ok := m.collections[key]; !ok {
		return nil, domain.ErrStoreNotInitialized
	}

	stored := m.chunks[key]
	hits := make([]driven.VectorHit, len(stored))
	for i, chunk := range stored {
		var dot float64
		for d, q := range query {
			if d < len(m.vectors[key][i]) {
				dot += float64(q) * float64(m.vectors[key][i][d])
			}
		}
		hits[i] = driven.VectorHit{Chunk: chunk, Similarity: dot}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *mockStore) List(_ context.Context) ([]domain.CollectionInfo, error) {
	out := make([]domain.CollectionInfo, 0, len(m.collections))
	for key, info := range m.collections {
		c := *info
		c.ChunkCount = len(m.chunks[key])
		out = append(out, c)
	}
	return out, nil
}

func (m *mockStore) Close() error { return nil }

// mockLLM is a scripted LLMService test double.
type mockLLM struct {
	generate      func(prompt string, opts driven.GenerateOptions) (string, error)
	chat          func(turns []domain.Turn, opts driven.GenerateOptions) (string, error)
	generateCalls []string
	chatCalls     [][]domain.Turn
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.generateCalls = append(m.generateCalls, prompt)
	if m.generate == nil {
		return "", fmt.Errorf("unexpected Generate call")
	}
	return m.generate(prompt, opts)
}

func (m *mockLLM) Chat(_ context.Context, turns []domain.Turn, opts driven.GenerateOptions) (string, error) {
	copied := make([]domain.Turn, len(turns))
	copy(copied, turns)
	m.chatCalls = append(m.chatCalls, copied)
	if m.chat == nil {
		return "", fmt.Errorf("unexpected Chat call")
	}
	return m.chat(turns, opts)
}

func (m *mockLLM) ModelName() string { return "mock-chat" }
func (m *mockLLM) Close() error      { return nil }

// mockPrompts serves minimal templates with the production placeholder
// shapes.
type mockPrompts struct{}

var _ driven.PromptStore = (*mockPrompts)(nil)

var mockTemplates = map[string]string{
	driven.PromptMapSummary:     "Write a %s summary of: %s",
	driven.PromptCombineSummary: "Write a %s combined summary of: %s",
	driven.PromptQASystem:       "Answer from context:\n%s",
	driven.PromptBlogTitle:      "Generate a blog title for %s",
	driven.PromptBlogContent:    "Generate blog content for %s",
	driven.PromptVerifyLanguage: "Is %s a real language?",
	driven.PromptTranslate:      "Translate into %s:\n%s\n%s",
}

func (mockPrompts) Load(name string) (string, error) {
	template, ok := mockTemplates[name]
	if !ok {
		return "", fmt.Errorf("no template for %q", name)
	}
	return template, nil
}

func (mockPrompts) Reload() {}

// mockLoader is a Loader test double.
type mockLoader struct {
	kind domain.SourceKind
	docs []domain.Document
	err  error
}

var _ driven.Loader = (*mockLoader)(nil)

func (m *mockLoader) Kind() domain.SourceKind { return m.kind }

func (m *mockLoader) Load(_ context.Context, _ string) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}
