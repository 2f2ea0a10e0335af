package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driving"
	"github.com/fathom-labs/fathom-cli/internal/logger"
)

// generationTemperature is used for every generation call; low enough
// to keep summaries and answers grounded.
const generationTemperature = 0.2

// Ensure SummariseService implements the interface.
var _ driving.Summariser = (*SummariseService)(nil)

// SummariseService ingests a source and produces a two-phase map-reduce
// summary of its chunks.
type SummariseService struct {
	ingestor *IngestService
	llm      driven.LLMService
	prompts  driven.PromptStore
}

// NewSummariseService creates a summarisation service.
func NewSummariseService(ingestor *IngestService, llm driven.LLMService, prompts driven.PromptStore) *SummariseService {
	return &SummariseService{
		ingestor: ingestor,
		llm:      llm,
		prompts:  prompts,
	}
}

// Summarise ingests the source, summarises each chunk (map phase) and
// combines the partial summaries (reduce phase). Verbosity changes
// prompt wording only.
func (s *SummariseService) Summarise(ctx context.Context, source string, kind domain.SourceKind, collection string, verbosity domain.Verbosity) (string, error) {
	if !verbosity.IsValid() {
		return "", fmt.Errorf("%w: unknown verbosity %q", domain.ErrInvalidInput, verbosity)
	}

	_, chunks, err := s.ingestor.ingest(ctx, source, kind, collection)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: nothing to summarise in %q", domain.ErrInvalidInput, source)
	}

	partials, err := s.mapPhase(ctx, chunks, verbosity)
	if err != nil {
		return "", err
	}
	return s.reducePhase(ctx, partials, verbosity)
}

// mapPhase summarises each chunk independently, in chunk order. Any
// failure aborts the whole run.
func (s *SummariseService) mapPhase(ctx context.Context, chunks []domain.Chunk, verbosity domain.Verbosity) ([]string, error) {
	template, err := s.prompts.Load(driven.PromptMapSummary)
	if err != nil {
		return nil, fmt.Errorf("load map prompt: %w", err)
	}

	logger.Section("map phase")
	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		prompt := fmt.Sprintf(template, verbosity.String(), chunk.Content)

		start := time.Now()
		partial, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: generationTemperature})
		if err != nil {
			return nil, fmt.Errorf("summarise segment %d/%d: %w", i+1, len(chunks), err)
		}
		logger.Timing(fmt.Sprintf("map segment %d/%d", i+1, len(chunks)), time.Since(start).Milliseconds())

		partials = append(partials, strings.TrimSpace(partial))
	}
	return partials, nil
}

// reducePhase combines the partial summaries into one.
func (s *SummariseService) reducePhase(ctx context.Context, partials []string, verbosity domain.Verbosity) (string, error) {
	template, err := s.prompts.Load(driven.PromptCombineSummary)
	if err != nil {
		return "", fmt.Errorf("load combine prompt: %w", err)
	}

	logger.Section("reduce phase")
	prompt := fmt.Sprintf(template, verbosity.String(), strings.Join(partials, "\n\n"))

	summary, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: generationTemperature})
	if err != nil {
		return "", fmt.Errorf("combine %d summaries: %w", len(partials), err)
	}
	return strings.TrimSpace(summary), nil
}
