// Package loaders provides the source-kind loader implementations and a
// default registry for the ingestion service.
package loaders

import (
	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
	"github.com/fathom-labs/fathom-cli/internal/loaders/article"
	"github.com/fathom-labs/fathom-cli/internal/loaders/markdown"
	"github.com/fathom-labs/fathom-cli/internal/loaders/pdf"
	"github.com/fathom-labs/fathom-cli/internal/loaders/plaintext"
	"github.com/fathom-labs/fathom-cli/internal/loaders/video"
)

// Defaults returns one loader per supported source kind.
func Defaults() map[domain.SourceKind]driven.Loader {
	all := []driven.Loader{
		plaintext.New(),
		markdown.New(),
		pdf.New(),
		article.New(nil),
		video.New(nil),
	}

	registry := make(map[domain.SourceKind]driven.Loader, len(all))
	for _, l := range all {
		registry[l.Kind()] = l
	}
	return registry
}
