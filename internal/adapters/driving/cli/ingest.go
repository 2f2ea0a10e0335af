package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

var (
	ingestKind       string
	ingestCollection string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [source]",
	Short: "Index a document, article or video into the vector store",
	Long: `Loads a source, splits it into chunks, embeds the chunks and stores
them in a local collection for later questioning.

Supported kinds: pdf, text, markdown, article (web page URL) and
video (YouTube URL, captions required). The kind is detected from the
source when --kind is not given.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestKind, "kind", "k", "", "source kind: pdf, text, markdown, article or video")
	ingestCmd.Flags().StringVarP(&ingestCollection, "collection", "c", "", "collection name (kind default when empty)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	source := args[0]

	kind, err := detectKind(source, ingestKind)
	if err != nil {
		return err
	}

	ingestor, cleanup, err := buildIngestor()
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := ingestor.Ingest(context.Background(), source, kind, ingestCollection)
	if err != nil {
		return err
	}

	cmd.Printf("Indexed %d chunks from %d document(s) into %s\n",
		report.Chunks, report.Documents, report.Collection.String())
	return nil
}

// detectKind maps an explicit --kind value, or failing that the shape
// of the source itself, to a source kind.
func detectKind(source, explicit string) (domain.SourceKind, error) {
	if explicit != "" {
		kind := domain.SourceKind(strings.ToLower(explicit))
		if !kind.IsValid() {
			return "", fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, explicit)
		}
		return kind, nil
	}

	lower := strings.ToLower(source)
	switch {
	case strings.Contains(lower, "youtube.com/") || strings.Contains(lower, "youtu.be/"):
		return domain.SourceVideo, nil
	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
		return domain.SourceArticle, nil
	case strings.HasSuffix(lower, ".pdf"):
		return domain.SourcePDF, nil
	case strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown"):
		return domain.SourceMarkdown, nil
	case strings.HasSuffix(lower, ".txt"):
		return domain.SourceText, nil
	default:
		return "", fmt.Errorf("%w: cannot detect the kind of %q, pass --kind", domain.ErrInvalidInput, source)
	}
}
