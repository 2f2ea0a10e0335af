// Package pdf loads PDF files by extracting text with the pdftotext
// tool from poppler-utils.
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// CommandRunner executes an external command and returns its stdout.
// It exists so tests can substitute the pdftotext invocation.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Loader extracts text from PDF files.
type Loader struct {
	runner CommandRunner
}

// New creates a PDF loader backed by the pdftotext binary.
func New() *Loader {
	return &Loader{runner: execRunner{}}
}

// NewWithRunner creates a PDF loader with a custom command runner.
func NewWithRunner(runner CommandRunner) *Loader {
	return &Loader{runner: runner}
}

// Kind returns the source kind this loader handles.
func (l *Loader) Kind() domain.SourceKind {
	return domain.SourcePDF
}

// Load extracts the text of the PDF at source.
func (l *Loader) Load(ctx context.Context, source string) ([]domain.Document, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("stat pdf %q: %w", source, err)
	}

	out, err := l.runner.Run(ctx, "pdftotext", "-layout", source, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext %q: %w", source, err)
	}

	content := strings.TrimSpace(string(out))
	if content == "" {
		return nil, fmt.Errorf("pdftotext %q: no extractable text", source)
	}

	return []domain.Document{{
		ID:      uuid.New().String(),
		Source:  source,
		Kind:    domain.SourcePDF,
		Title:   titleFromPath(source),
		Content: content,
		Metadata: map[string]any{
			"format": "pdf",
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
