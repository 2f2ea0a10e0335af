package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [source]", ingestCmd.Use)
}

func TestIngestCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIngestCmd_ReportsChunkCount(t *testing.T) {
	services := setupTestServices(t)

	out, err := executeCommand(t, "ingest", "notes.txt", "--collection", "my-notes")

	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 3 chunks from 1 document(s)")
	assert.Contains(t, out, "openai-my-notes")
	assert.Equal(t, "notes.txt", services.ingestor.source)
	assert.Equal(t, domain.SourceText, services.ingestor.kind)
	assert.Equal(t, "my-notes", services.ingestor.collection)
}

func TestIngestCmd_ExplicitKindWins(t *testing.T) {
	services := setupTestServices(t)

	_, err := executeCommand(t, "ingest", "notes.txt", "--kind", "markdown")

	require.NoError(t, err)
	assert.Equal(t, domain.SourceMarkdown, services.ingestor.kind)
}

func TestIngestCmd_UnknownKind(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "ingest", "notes.txt", "--kind", "audio")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		source string
		want   domain.SourceKind
	}{
		{"report.pdf", domain.SourcePDF},
		{"README.md", domain.SourceMarkdown},
		{"notes.markdown", domain.SourceMarkdown},
		{"notes.txt", domain.SourceText},
		{"https://www.youtube.com/watch?v=abc123DEF45", domain.SourceVideo},
		{"https://youtu.be/abc123DEF45", domain.SourceVideo},
		{"https://example.com/some-story", domain.SourceArticle},
	}

	for _, tc := range tests {
		t.Run(tc.source, func(t *testing.T) {
			kind, err := detectKind(tc.source, "")
			require.NoError(t, err)
			assert.Equal(t, tc.want, kind)
		})
	}
}

func TestDetectKind_Undetectable(t *testing.T) {
	_, err := detectKind("mystery.dat", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
