package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driving"
	"github.com/fathom-labs/fathom-cli/internal/logger"
)

// Ensure QAService implements the interface.
var _ driving.Answerer = (*QAService)(nil)

// QAService answers questions against one collection, carrying
// conversation memory between calls. Memory lives in process only; the
// vector index persists.
type QAService struct {
	library    *Library
	llm        driven.LLMService
	prompts    driven.PromptStore
	collection string
	topK       int
	memory     *domain.Conversation
}

// NewQAService creates a question-answering service bound to a
// collection.
func NewQAService(library *Library, llm driven.LLMService, prompts driven.PromptStore, collection string, topK int) *QAService {
	return &QAService{
		library:    library,
		llm:        llm,
		prompts:    prompts,
		collection: collection,
		topK:       topK,
		memory:     domain.NewConversation(),
	}
}

// Ask retrieves the most relevant chunks, conditions a chat call on
// them plus the conversation so far, and returns the answer. The
// (question, answer) pair is appended to memory afterwards.
func (s *QAService) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	info, err := s.library.Info(ctx, s.collection)
	if err != nil {
		return "", err
	}
	if info == nil {
		return "", fmt.Errorf("%w: collection %s does not exist, ingest something first",
			domain.ErrRetrievalQA, s.library.Key(s.collection).String())
	}
	if info.ChunkCount == 0 {
		return "", fmt.Errorf("%w: collection %s is empty", domain.ErrRetrievalQA, info.Key.String())
	}

	hits, err := s.library.Retrieve(ctx, s.collection, question, s.topK)
	if err != nil {
		return "", err
	}

	template, err := s.prompts.Load(driven.PromptQASystem)
	if err != nil {
		return "", fmt.Errorf("load QA prompt: %w", err)
	}

	contexts := make([]string, len(hits))
	for i, hit := range hits {
		contexts[i] = hit.Chunk.Content
	}

	turns := make([]domain.Turn, 0, s.memory.Len()+2)
	turns = append(turns, domain.Turn{
		Role:    domain.RoleSystem,
		Content: fmt.Sprintf(template, strings.Join(contexts, "\n\n")),
	})
	turns = append(turns, s.memory.Turns()...)
	turns = append(turns, domain.Turn{Role: domain.RoleUser, Content: question})

	answer, err := s.llm.Chat(ctx, turns, driven.GenerateOptions{Temperature: generationTemperature})
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)

	s.memory.Append(domain.RoleUser, question)
	s.memory.Append(domain.RoleAssistant, answer)
	logger.Debug("conversation now holds %d turns", s.memory.Len())

	return answer, nil
}

// Clear empties the conversation memory. The vector index is untouched.
func (s *QAService) Clear() {
	s.memory.Clear()
}
