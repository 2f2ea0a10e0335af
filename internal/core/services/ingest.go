package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fathom-labs/fathom-cli/internal/chunker"
	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driving"
	"github.com/fathom-labs/fathom-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService loads a source, chunks it and indexes the chunks into a
// collection.
type IngestService struct {
	loaders  map[domain.SourceKind]driven.Loader
	splitter *chunker.Splitter
	library  *Library
}

// NewIngestService creates an ingestion service.
func NewIngestService(loaders map[domain.SourceKind]driven.Loader, splitter *chunker.Splitter, library *Library) *IngestService {
	return &IngestService{
		loaders:  loaders,
		splitter: splitter,
		library:  library,
	}
}

// Ingest loads, chunks, embeds and persists a source. An empty
// collection name selects the kind's default collection.
func (s *IngestService) Ingest(ctx context.Context, source string, kind domain.SourceKind, collection string) (*driving.IngestReport, error) {
	report, _, err := s.ingest(ctx, source, kind, collection)
	return report, err
}

// ingest is the shared implementation; it also returns the freshly
// stored chunks so the summariser can map-reduce them without
// re-reading the store.
func (s *IngestService) ingest(ctx context.Context, source string, kind domain.SourceKind, collection string) (*driving.IngestReport, []domain.Chunk, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil, fmt.Errorf("%w: source is required", domain.ErrInvalidInput)
	}
	if !kind.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, kind)
	}
	if collection == "" {
		collection = kind.DefaultCollection()
	}

	loader, ok := s.loaders[kind]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no loader registered for kind %s", domain.ErrIngestion, kind)
	}

	logger.Section("ingest")
	logger.Info("loading %s source %s", kind, source)

	docs, err := loader.Load(ctx, source)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: load %s source %q: %w", domain.ErrIngestion, kind, source, err)
	}
	if len(docs) == 0 {
		return nil, nil, fmt.Errorf("%w: source %q produced no documents", domain.ErrIngestion, source)
	}

	for i := range docs {
		docs[i].Metadata = domain.SanitiseMetadata(docs[i].Metadata)
	}

	chunks := s.splitter.Split(docs)
	logger.Info("split %d documents into %d chunks", len(docs), len(chunks))

	key, err := s.library.EnsureCollection(ctx, collection)
	if err != nil {
		return nil, nil, err
	}
	if err := s.library.Add(ctx, collection, chunks); err != nil {
		return nil, nil, err
	}

	report := &driving.IngestReport{
		Collection: key,
		Documents:  len(docs),
		Chunks:     len(chunks),
	}
	return report, chunks, nil
}
