// Package markdown loads Markdown files, stripping formatting to plain
// text.
package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader reads a Markdown file into a single document with formatting
// simplified to plain text.
type Loader struct{}

// New creates a new Markdown loader.
func New() *Loader {
	return &Loader{}
}

// Kind returns the source kind this loader handles.
func (l *Loader) Kind() domain.SourceKind {
	return domain.SourceMarkdown
}

// Load reads and strips the Markdown file at source.
func (l *Loader) Load(_ context.Context, source string) ([]domain.Document, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read markdown file %q: %w", source, err)
	}
	raw := string(data)

	return []domain.Document{{
		ID:      uuid.New().String(),
		Source:  source,
		Kind:    domain.SourceMarkdown,
		Title:   extractTitle(raw, source),
		Content: stripMarkdown(raw),
		Metadata: map[string]any{
			"format": "markdown",
		},
		CreatedAt: time.Now(),
	}}, nil
}

// extractTitle takes the first H1 heading, falling back to the file
// name.
func extractTitle(content, source string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}

	name := filepath.Base(source)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}

// Markdown constructs removed before indexing, applied in order.
var markdownRules = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile("(?s)```[^`]*```"), ""},            // fenced code blocks
	{regexp.MustCompile("`[^`]+`"), ""},                    // inline code
	{regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`), ""},       // images
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), "$1"},    // links: keep text
	{regexp.MustCompile(`(?m)^#{1,6}\s+`), ""},             // heading markers
	{regexp.MustCompile(`(?m)^>\s*`), ""},                  // blockquotes
	{regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`), ""},         // horizontal rules
	{regexp.MustCompile(`(?m)^\s*[-*+]\s+`), ""},           // list markers
	{regexp.MustCompile(`(?m)^\s*\d+\.\s+`), ""},           // numbered lists
	{regexp.MustCompile(`\n{3,}`), "\n\n"},                 // collapse blank lines
}

// stripMarkdown removes common Markdown formatting.
func stripMarkdown(content string) string {
	for _, rule := range markdownRules {
		content = rule.pattern.ReplaceAllString(content, rule.replace)
	}
	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")
	return strings.TrimSpace(content)
}
