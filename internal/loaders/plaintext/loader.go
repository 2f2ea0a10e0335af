// Package plaintext loads plain text files.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader reads a plain text file into a single document.
type Loader struct{}

// New creates a new plain text loader.
func New() *Loader {
	return &Loader{}
}

// Kind returns the source kind this loader handles.
func (l *Loader) Kind() domain.SourceKind {
	return domain.SourceText
}

// Load reads the file at source.
func (l *Loader) Load(_ context.Context, source string) ([]domain.Document, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read text file %q: %w", source, err)
	}

	return []domain.Document{{
		ID:      uuid.New().String(),
		Source:  source,
		Kind:    domain.SourceText,
		Title:   titleFromPath(source),
		Content: string(data),
		Metadata: map[string]any{
			"format": "text",
		},
		CreatedAt: time.Now(),
	}}, nil
}

// titleFromPath derives a title from the file name.
func titleFromPath(source string) string {
	name := filepath.Base(source)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}
