package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driving"
)

// executeCommand runs the root command with args and captures output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// stubIngestor records the last ingestion request.
type stubIngestor struct {
	report *driving.IngestReport
	err    error

	source     string
	kind       domain.SourceKind
	collection string
}

var _ driving.Ingestor = (*stubIngestor)(nil)

func (s *stubIngestor) Ingest(_ context.Context, source string, kind domain.SourceKind, collection string) (*driving.IngestReport, error) {
	s.source = source
	s.kind = kind
	s.collection = collection
	return s.report, s.err
}

// stubSummariser records the last summarisation request.
type stubSummariser struct {
	summary string
	err     error

	source    string
	kind      domain.SourceKind
	verbosity domain.Verbosity
}

var _ driving.Summariser = (*stubSummariser)(nil)

func (s *stubSummariser) Summarise(_ context.Context, source string, kind domain.SourceKind, _ string, verbosity domain.Verbosity) (string, error) {
	s.source = source
	s.kind = kind
	s.verbosity = verbosity
	return s.summary, s.err
}

// stubAnswerer echoes questions and counts clears.
type stubAnswerer struct {
	err     error
	asked   []string
	cleared int
}

var _ driving.Answerer = (*stubAnswerer)(nil)

func (s *stubAnswerer) Ask(_ context.Context, question string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.asked = append(s.asked, question)
	return "answer to: " + question, nil
}

func (s *stubAnswerer) Clear() { s.cleared++ }

// stubBlogWriter returns a fixed blog state.
type stubBlogWriter struct {
	state *domain.BlogState
	err   error

	topic    string
	language string
}

var _ driving.BlogWriter = (*stubBlogWriter)(nil)

func (s *stubBlogWriter) Write(_ context.Context, topic, language string) (*domain.BlogState, error) {
	s.topic = topic
	s.language = language
	return s.state, s.err
}

// stubStore serves a fixed collection listing.
type stubStore struct {
	infos []domain.CollectionInfo
}

var _ driven.VectorStore = (*stubStore)(nil)

func (s *stubStore) CreateCollection(context.Context, domain.CollectionKey, string, int) error {
	return nil
}

func (s *stubStore) Get(context.Context, domain.CollectionKey) (*domain.CollectionInfo, error) {
	return nil, nil
}

func (s *stubStore) AddChunks(context.Context, domain.CollectionKey, []domain.Chunk, [][]float32) error {
	return nil
}

func (s *stubStore) Search(context.Context, domain.CollectionKey, []float32, int) ([]driven.VectorHit, error) {
	return nil, nil
}

func (s *stubStore) List(context.Context) ([]domain.CollectionInfo, error) {
	return s.infos, nil
}

func (s *stubStore) Close() error { return nil }

// testServices holds the stubs wired in by setupTestServices.
type testServices struct {
	ingestor   *stubIngestor
	summariser *stubSummariser
	answerer   *stubAnswerer
	blogWriter *stubBlogWriter
	store      *stubStore
}

// setupTestServices swaps the service builders for stubs and resets
// command flags. The returned cleanup restores everything.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	services := &testServices{
		ingestor: &stubIngestor{
			report: &driving.IngestReport{
				Collection: domain.CollectionKey{Provider: domain.AIProviderOpenAI, Name: "my-notes"},
				Documents:  1,
				Chunks:     3,
			},
		},
		summariser: &stubSummariser{summary: "a short summary"},
		answerer:   &stubAnswerer{},
		blogWriter: &stubBlogWriter{state: &domain.BlogState{
			Topic:         "testing",
			LanguageCheck: domain.LanguageUnchecked,
			Blog:          domain.BlogRecord{Title: "On Testing", Content: "Testing matters."},
		}},
		store: &stubStore{},
	}

	origIngestor := buildIngestor
	origSummariser := buildSummariser
	origAnswerer := buildAnswerer
	origBlogWriter := buildBlogWriter
	origStore := buildVectorStore

	buildIngestor = func() (driving.Ingestor, func(), error) {
		return services.ingestor, func() {}, nil
	}
	buildSummariser = func() (driving.Summariser, func(), error) {
		return services.summariser, func() {}, nil
	}
	buildAnswerer = func(string, int) (driving.Answerer, func(), error) {
		return services.answerer, func() {}, nil
	}
	buildBlogWriter = func() (driving.BlogWriter, func(), error) {
		return services.blogWriter, func() {}, nil
	}
	buildVectorStore = func() (driven.VectorStore, func(), error) {
		return services.store, func() {}, nil
	}

	t.Cleanup(func() {
		buildIngestor = origIngestor
		buildSummariser = origSummariser
		buildAnswerer = origAnswerer
		buildBlogWriter = origBlogWriter
		buildVectorStore = origStore

		configDir = ""
		dataDir = ""
		verbose = false
		ingestKind = ""
		ingestCollection = ""
		summariseKind = ""
		summariseCollection = ""
		summariseDetailed = false
		askCollection = "unstructured-store"
		askTopK = 0
		blogLanguage = ""
		collectionsJSON = false
	})

	return services
}
