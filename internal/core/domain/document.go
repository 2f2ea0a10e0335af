package domain

import "time"

// Document is the canonical representation of ingested content.
// It is produced by a source-kind loader and is immutable once created.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Source is the original location (file path or URL).
	Source string

	// Kind identifies the loader that produced this document.
	Kind SourceKind

	// Title is the human-readable title, if the source provides one.
	Title string

	// Content is the full plain-text content after extraction.
	Content string

	// Metadata contains source-specific key-value pairs.
	// Values are restricted to scalars and lists of strings; see
	// SanitiseMetadata.
	Metadata map[string]any

	// CreatedAt is when the document was loaded.
	CreatedAt time.Time
}

// Chunk is a bounded window of a document's text, sized for embedding
// and map-phase summarisation. Chunks from the same document are ordered
// by Position.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the source Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Metadata carries the source document's metadata.
	Metadata map[string]any
}

// SourceKind identifies the kind of content source being ingested.
type SourceKind string

// Supported source kinds.
const (
	SourcePDF      SourceKind = "pdf"
	SourceText     SourceKind = "text"
	SourceMarkdown SourceKind = "markdown"
	SourceVideo    SourceKind = "video"
	SourceArticle  SourceKind = "article"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourcePDF, SourceText, SourceMarkdown, SourceVideo, SourceArticle:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// DefaultCollection returns the default collection name for content of
// this kind.
func (k SourceKind) DefaultCollection() string {
	switch k {
	case SourceArticle:
		return "news-store"
	case SourceVideo:
		return "video-store"
	default:
		return "unstructured-store"
	}
}

// SanitiseMetadata returns a copy of metadata restricted to values the
// storage layer accepts: strings, booleans, integers, floats, timestamps
// and lists of strings. Anything else is dropped. Lists of interface
// values are kept only when every element is a string.
func SanitiseMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}

	clean := make(map[string]any, len(metadata))
	for key, value := range metadata {
		switch v := value.(type) {
		case string, bool, int, int64, float64, time.Time:
			clean[key] = v
		case []string:
			clean[key] = v
		case []any:
			strs := make([]string, 0, len(v))
			ok := true
			for _, elem := range v {
				s, isStr := elem.(string)
				if !isStr {
					ok = false
					break
				}
				strs = append(strs, s)
			}
			if ok {
				clean[key] = strs
			}
		}
	}
	return clean
}
