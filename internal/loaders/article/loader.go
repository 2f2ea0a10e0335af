// Package article loads news articles over HTTP, extracting a
// best-effort structured record (title, authors, publish date, keywords,
// short summary) alongside the body text.
package article

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// DefaultTimeout is the fetch timeout.
const DefaultTimeout = 30 * time.Second

// userAgent identifies the fetcher; some news sites reject the Go
// default.
const userAgent = "Mozilla/5.0 (compatible; fathom/1.0)"

// Loader fetches and parses a news article from a URL.
type Loader struct {
	client *http.Client
}

// New creates an article loader. A nil client gets a default with
// DefaultTimeout.
func New(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Loader{client: client}
}

// Kind returns the source kind this loader handles.
func (l *Loader) Kind() domain.SourceKind {
	return domain.SourceArticle
}

// Load fetches the article at source and extracts text plus metadata.
// Fetch and parse failures are returned; an empty document is never
// produced silently.
func (l *Loader) Load(ctx context.Context, source string) ([]domain.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request for %q: %w", source, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch article %q: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch article %q: status %d", source, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read article %q: %w", source, err)
	}

	page := string(body)
	text := stripHTML(page)
	if text == "" {
		return nil, fmt.Errorf("parse article %q: no extractable text", source)
	}

	meta := parseMetaTags(page)
	title := firstNonEmpty(meta["og:title"], extractTitleTag(page))
	summary := firstNonEmpty(meta["og:description"], meta["description"], leadingSentences(text, 2))

	metadata := map[string]any{
		"title":   title,
		"url":     source,
		"summary": summary,
	}
	if authors := collectAuthors(page); len(authors) > 0 {
		metadata["authors"] = authors
	}
	if published := firstNonEmpty(meta["article:published_time"], meta["date"]); published != "" {
		metadata["published_date"] = published
	}
	if keywords := splitKeywords(meta["keywords"]); len(keywords) > 0 {
		metadata["keywords"] = keywords
	}

	return []domain.Document{{
		ID:        uuid.New().String(),
		Source:    source,
		Kind:      domain.SourceArticle,
		Title:     title,
		Content:   text,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}}, nil
}

var (
	metaTagPattern  = regexp.MustCompile(`(?is)<meta\s[^>]*>`)
	metaAttrPattern = regexp.MustCompile(`(?is)(name|property|content)\s*=\s*["']([^"']*)["']`)
	titlePattern    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptPattern   = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	breakPattern    = regexp.MustCompile(`(?i)<(br|/p|/div|/h[1-6]|/li)[^>]*>`)
	tagPattern      = regexp.MustCompile(`(?s)<[^>]*>`)
	blankPattern    = regexp.MustCompile(`\n{3,}`)
	spacePattern    = regexp.MustCompile(`[ \t]+`)
)

// parseMetaTags extracts name/property -> content pairs from all meta
// tags, tolerating any attribute order.
func parseMetaTags(page string) map[string]string {
	meta := make(map[string]string)
	for _, tag := range metaTagPattern.FindAllString(page, -1) {
		var key, content string
		for _, attr := range metaAttrPattern.FindAllStringSubmatch(tag, -1) {
			switch strings.ToLower(attr[1]) {
			case "name", "property":
				key = strings.ToLower(attr[2])
			case "content":
				content = html.UnescapeString(attr[2])
			}
		}
		if key != "" && content != "" {
			if _, seen := meta[key]; !seen {
				meta[key] = content
			}
		}
	}
	return meta
}

// collectAuthors gathers every <meta name="author"> value.
func collectAuthors(page string) []string {
	var authors []string
	for _, tag := range metaTagPattern.FindAllString(page, -1) {
		var key, content string
		for _, attr := range metaAttrPattern.FindAllStringSubmatch(tag, -1) {
			switch strings.ToLower(attr[1]) {
			case "name", "property":
				key = strings.ToLower(attr[2])
			case "content":
				content = html.UnescapeString(attr[2])
			}
		}
		if key == "author" && content != "" {
			authors = append(authors, content)
		}
	}
	return authors
}

// extractTitleTag returns the page <title> text.
func extractTitleTag(page string) string {
	m := titlePattern.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}

// stripHTML converts an HTML page to plain text: scripts and styles
// removed, block-level closers become line breaks, remaining tags
// stripped, entities unescaped.
func stripHTML(page string) string {
	page = scriptPattern.ReplaceAllString(page, "")
	page = breakPattern.ReplaceAllString(page, "\n")
	page = tagPattern.ReplaceAllString(page, " ")
	page = html.UnescapeString(page)
	page = spacePattern.ReplaceAllString(page, " ")

	lines := strings.Split(page, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	page = strings.Join(lines, "\n")
	page = blankPattern.ReplaceAllString(page, "\n\n")
	return strings.TrimSpace(page)
}

// leadingSentences returns the first n sentences of text as a
// best-effort auto summary.
func leadingSentences(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	count := 0
	for i, r := range flat {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == n {
				return flat[:i+1]
			}
		}
	}
	return flat
}

// splitKeywords splits a comma-separated keywords value.
func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var keywords []string
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// firstNonEmpty returns the first non-empty candidate.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
