// Package chunker splits documents into overlapping fixed-size text
// windows suitable for embedding and map-phase summarisation.
package chunker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1024

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Splitter splits document content into chunks of at most size runes,
// preferring to cut at a paragraph break, then a line break, then a
// sentence end, then a word boundary, before falling back to a hard cut.
// Adjacent chunks from the same document overlap by exactly overlap
// runes, so re-concatenating chunk texts minus the overlapped prefix of
// each chunk after the first reconstructs the document exactly.
type Splitter struct {
	size    int
	overlap int
}

// New creates a splitter. Requires size > 0 and 0 <= overlap < size.
func New(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must satisfy 0 <= overlap < size, got overlap=%d size=%d",
			domain.ErrInvalidInput, overlap, size)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Size returns the configured chunk size in runes.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the configured overlap in runes.
func (s *Splitter) Overlap() int { return s.overlap }

// Split chunks each document in order. Chunk positions restart at zero
// per document; each chunk carries its source document's metadata.
func (s *Splitter) Split(documents []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for _, doc := range documents {
		for position, text := range s.SplitText(doc.Content) {
			chunks = append(chunks, domain.Chunk{
				ID:         uuid.New().String(),
				DocumentID: doc.ID,
				Content:    text,
				Position:   position,
				Metadata:   doc.Metadata,
			})
		}
	}
	return chunks
}

// SplitText splits raw text into overlapping windows. Identical input
// always yields identical boundaries. Empty input yields no chunks.
func (s *Splitter) SplitText(text string) []string {
	runes := []rune(text)
	total := len(runes)
	if total == 0 {
		return nil
	}
	if total <= s.size {
		return []string{text}
	}

	var parts []string
	start := 0
	for {
		end := start + s.size
		if end >= total {
			parts = append(parts, string(runes[start:total]))
			break
		}
		cut := start + s.cutPoint(runes[start:end])
		parts = append(parts, string(runes[start:cut]))
		start = cut - s.overlap
	}
	return parts
}

// cutPoint returns the cut offset within window, seeking the latest
// natural boundary. The cut always exceeds overlap so each step makes
// progress.
func (s *Splitter) cutPoint(window []rune) int {
	min := s.overlap + 1

	// Paragraph break: cut just after "\n\n".
	for c := len(window); c >= min; c-- {
		if c >= 2 && window[c-2] == '\n' && window[c-1] == '\n' {
			return c
		}
	}

	// Line break: cut just after '\n'.
	for c := len(window); c >= min; c-- {
		if window[c-1] == '\n' {
			return c
		}
	}

	// Sentence end: cut just after ". ", "! " or "? ".
	for c := len(window); c >= min; c-- {
		if c >= 2 && window[c-1] == ' ' && isSentenceEnd(window[c-2]) {
			return c
		}
	}

	// Word boundary: cut just after a space.
	for c := len(window); c >= min; c-- {
		if window[c-1] == ' ' {
			return c
		}
	}

	// Hard cut at size.
	return len(window)
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
