package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathom-labs/fathom-cli/internal/chunker"
	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
)

func newSummariseFixture(t *testing.T, content string, llm *mockLLM) *SummariseService {
	t.Helper()
	loader := &mockLoader{
		kind: domain.SourceText,
		docs: []domain.Document{{ID: "d1", Kind: domain.SourceText, Content: content}},
	}
	ingestor, _, _ := newIngestFixture(t, loader)
	return NewSummariseService(ingestor, llm, mockPrompts{})
}

func TestSummarise_MapReduce(t *testing.T) {
	mapCount := 0
	llm := &mockLLM{
		generate: func(prompt string, opts driven.GenerateOptions) (string, error) {
			assert.InDelta(t, generationTemperature, opts.Temperature, 1e-9)
			if strings.Contains(prompt, "combined summary") {
				return "final summary", nil
			}
			mapCount++
			return fmt.Sprintf("partial-%d", mapCount), nil
		},
	}
	// Long enough to split into several chunks at size 40.
	content := strings.Repeat("One sentence here. ", 10)
	svc := newSummariseFixture(t, content, llm)

	summary, err := svc.Summarise(context.Background(), "a.txt", domain.SourceText, "", domain.VerbosityConcise)
	require.NoError(t, err)
	assert.Equal(t, "final summary", summary)
	require.Greater(t, mapCount, 1)

	// Every map prompt carries the verbosity word; the reduce prompt
	// receives the partials joined in chunk order.
	combine := llm.generateCalls[len(llm.generateCalls)-1]
	assert.Contains(t, combine, "concise")
	assert.Contains(t, combine, "partial-1\n\npartial-2")
	for _, prompt := range llm.generateCalls[:len(llm.generateCalls)-1] {
		assert.Contains(t, prompt, "concise summary")
	}
}

func TestSummarise_DetailedChangesWordingOnly(t *testing.T) {
	llm := &mockLLM{
		generate: func(prompt string, _ driven.GenerateOptions) (string, error) {
			return "s", nil
		},
	}
	svc := newSummariseFixture(t, "tiny input", llm)

	_, err := svc.Summarise(context.Background(), "a.txt", domain.SourceText, "", domain.VerbosityDetailed)
	require.NoError(t, err)
	for _, prompt := range llm.generateCalls {
		assert.Contains(t, prompt, "detailed")
	}
}

func TestSummarise_MapFailureAborts(t *testing.T) {
	calls := 0
	llm := &mockLLM{
		generate: func(prompt string, _ driven.GenerateOptions) (string, error) {
			calls++
			if calls == 2 {
				return "", fmt.Errorf("%w: rate limited", domain.ErrGeneration)
			}
			return "s", nil
		},
	}
	content := strings.Repeat("Words and more words here. ", 10)
	svc := newSummariseFixture(t, content, llm)

	_, err := svc.Summarise(context.Background(), "a.txt", domain.SourceText, "", domain.VerbosityConcise)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
	// The run stops at the failed segment; no reduce call happens.
	assert.Equal(t, 2, calls)
}

func TestSummarise_EmptyInputFailsFast(t *testing.T) {
	llm := &mockLLM{
		generate: func(string, driven.GenerateOptions) (string, error) {
			return "", errors.New("must not be called")
		},
	}
	svc := newSummariseFixture(t, "", llm)

	_, err := svc.Summarise(context.Background(), "a.txt", domain.SourceText, "", domain.VerbosityConcise)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, llm.generateCalls)
}

func TestSummarise_InvalidVerbosity(t *testing.T) {
	svc := newSummariseFixture(t, "content", &mockLLM{})

	_, err := svc.Summarise(context.Background(), "a.txt", domain.SourceText, "", domain.Verbosity("terse"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummarise_PersistsChunksForFollowUpQA(t *testing.T) {
	loader := &mockLoader{
		kind: domain.SourceText,
		docs: []domain.Document{{ID: "d1", Kind: domain.SourceText, Content: "persisted for later"}},
	}
	splitter, err := chunker.New(chunker.DefaultChunkSize, chunker.DefaultChunkOverlap)
	require.NoError(t, err)

	store := newMockStore()
	library := NewLibrary(store, newMockEmbedder(), domain.AIProviderOpenAI)
	ingestor := NewIngestService(map[domain.SourceKind]driven.Loader{domain.SourceText: loader}, splitter, library)

	llm := &mockLLM{generate: func(string, driven.GenerateOptions) (string, error) { return "s", nil }}
	svc := NewSummariseService(ingestor, llm, mockPrompts{})

	_, err = svc.Summarise(context.Background(), "a.txt", domain.SourceText, "keep", domain.VerbosityConcise)
	require.NoError(t, err)

	key := domain.CollectionKey{Provider: domain.AIProviderOpenAI, Name: "keep"}
	assert.NotEmpty(t, store.chunks[key])
}
