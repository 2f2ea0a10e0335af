package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

var (
	summariseKind       string
	summariseCollection string
	summariseDetailed   bool
)

var summariseCmd = &cobra.Command{
	Use:     "summarise [source]",
	Aliases: []string{"summarize"},
	Short:   "Ingest a source and print a summary of it",
	Long: `Indexes the source like 'fathom ingest', then summarises each chunk
and combines the partial summaries into one. The chunks stay in the
collection, so the source can be questioned afterwards without
re-ingesting.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarise,
}

func init() {
	summariseCmd.Flags().StringVarP(&summariseKind, "kind", "k", "", "source kind: pdf, text, markdown, article or video")
	summariseCmd.Flags().StringVarP(&summariseCollection, "collection", "c", "", "collection name (kind default when empty)")
	summariseCmd.Flags().BoolVarP(&summariseDetailed, "detailed", "d", false, "produce a detailed summary instead of a concise one")
	rootCmd.AddCommand(summariseCmd)
}

func runSummarise(cmd *cobra.Command, args []string) error {
	source := args[0]

	kind, err := detectKind(source, summariseKind)
	if err != nil {
		return err
	}

	verbosity := domain.VerbosityConcise
	if summariseDetailed {
		verbosity = domain.VerbosityDetailed
	}

	summariser, cleanup, err := buildSummariser()
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := summariser.Summarise(context.Background(), source, kind, summariseCollection, verbosity)
	if err != nil {
		return err
	}

	cmd.Println(summary)
	return nil
}
