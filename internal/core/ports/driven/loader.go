package driven

import (
	"context"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

// Loader fetches and extracts raw content of one source kind into the
// uniform Document shape. Byte and network fetching live entirely inside
// the loader; failures are returned, never swallowed into an empty
// document.
type Loader interface {
	// Kind returns the source kind this loader handles.
	Kind() domain.SourceKind

	// Load fetches the source and returns one or more documents.
	Load(ctx context.Context, source string) ([]domain.Document, error)
}
