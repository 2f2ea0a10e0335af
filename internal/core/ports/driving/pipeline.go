package driving

import (
	"context"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

// Ingestor loads content from a source and indexes it into a collection.
type Ingestor interface {
	// Ingest loads, chunks, embeds and persists a source. Returns a
	// report describing what was stored.
	Ingest(ctx context.Context, source string, kind domain.SourceKind, collection string) (*IngestReport, error)
}

// IngestReport describes the outcome of one ingestion.
type IngestReport struct {
	// Collection is the key the chunks were stored under.
	Collection domain.CollectionKey

	// Documents is the number of documents loaded from the source.
	Documents int

	// Chunks is the number of chunks embedded and persisted.
	Chunks int
}

// Summariser produces a hierarchical summary of a source.
type Summariser interface {
	// Summarise ingests the source and returns a map-reduce summary of
	// its chunks at the requested verbosity.
	Summarise(ctx context.Context, source string, kind domain.SourceKind, collection string, verbosity domain.Verbosity) (string, error)
}

// Answerer answers free-form questions against an indexed collection,
// carrying multi-turn conversation memory between calls.
type Answerer interface {
	// Ask retrieves relevant chunks, conditions a chat call on them plus
	// the conversation so far, and returns the answer text.
	Ask(ctx context.Context, question string) (string, error)

	// Clear empties the conversation memory. The vector index is
	// untouched.
	Clear()
}

// BlogWriter runs the blog generation graph.
type BlogWriter interface {
	// Write generates a blog for the topic. When language is non-empty
	// the language is verified first and the blog is translated after
	// generation; an unrecognised language terminates the run with the
	// language check marked invalid and no content generated.
	Write(ctx context.Context, topic, language string) (*domain.BlogState, error)
}
