// Package video loads YouTube video transcripts from the public caption
// (timedtext) endpoint.
package video

import (
	"context"
	"encoding/xml"
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

// watchBaseURL is the page scraped for the caption track location.
// Variable so tests can point it at a local server.
var watchBaseURL = "https://www.youtube.com/watch?v="

// Loader fetches a video's transcript.
type Loader struct {
	client *http.Client
}

// New creates a video transcript loader. A nil client gets a default
// with DefaultTimeout.
func New(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Loader{client: client}
}

// Kind returns the source kind this loader handles.
func (l *Loader) Kind() domain.SourceKind {
	return domain.SourceVideo
}

// Load resolves the video ID from source, scrapes the watch page for its
// caption track and fetches the transcript.
func (l *Loader) Load(ctx context.Context, source string) ([]domain.Document, error) {
	videoID, err := extractVideoID(source)
	if err != nil {
		return nil, err
	}

	page, err := l.fetch(ctx, watchBaseURL+videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page for %q: %w", videoID, err)
	}

	trackURL, err := captionTrackURL(page)
	if err != nil {
		return nil, fmt.Errorf("video %q: %w", videoID, err)
	}

	transcriptXML, err := l.fetch(ctx, trackURL)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript for %q: %w", videoID, err)
	}

	transcript, err := parseTranscript(transcriptXML)
	if err != nil {
		return nil, fmt.Errorf("parse transcript for %q: %w", videoID, err)
	}

	title := pageTitle(page)
	return []domain.Document{{
		ID:      uuid.New().String(),
		Source:  source,
		Kind:    domain.SourceVideo,
		Title:   title,
		Content: transcript,
		Metadata: map[string]any{
			"title":    title,
			"url":      source,
			"video_id": videoID,
		},
		CreatedAt: time.Now(),
	}}, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(body), nil
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`^([A-Za-z0-9_-]{11})$`),
}

// extractVideoID accepts watch URLs, short URLs, embed URLs and raw
// 11-character IDs.
func extractVideoID(source string) (string, error) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(source); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("no video ID in %q", source)
}

var (
	captionTrackPattern = regexp.MustCompile(`"captionTracks":\s*\[\s*\{[^}]*?"baseUrl":\s*"([^"]+)"`)
	titleTagPattern     = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
)

// captionTrackURL finds the first caption track in the watch page's
// embedded player config. The URL arrives JSON-escaped.
func captionTrackURL(page string) (string, error) {
	m := captionTrackPattern.FindStringSubmatch(page)
	if m == nil {
		return "", fmt.Errorf("no caption tracks available")
	}
	url := strings.ReplaceAll(m[1], `\u0026`, "&")
	url = strings.ReplaceAll(url, `\/`, "/")
	return url, nil
}

// transcriptDoc is the timedtext XML shape.
type transcriptDoc struct {
	XMLName xml.Name         `xml:"transcript"`
	Texts   []transcriptText `xml:"text"`
}

type transcriptText struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Value string `xml:",chardata"`
}

// parseTranscript joins all caption lines into one text. Caption values
// arrive double-escaped, so they are unescaped twice.
func parseTranscript(raw string) (string, error) {
	var doc transcriptDoc
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return "", fmt.Errorf("decode timedtext: %w", err)
	}
	if len(doc.Texts) == 0 {
		return "", fmt.Errorf("empty transcript")
	}

	lines := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		line := html.UnescapeString(html.UnescapeString(t.Value))
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " "), nil
}

// pageTitle extracts the watch page title, dropping the site suffix.
func pageTitle(page string) string {
	m := titleTagPattern.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	title := strings.TrimSpace(html.UnescapeString(m[1]))
	return strings.TrimSuffix(title, " - YouTube")
}
