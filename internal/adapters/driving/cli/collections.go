package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

var collectionsJSON bool

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List indexed collections",
	Long:  `Lists every collection in the vector store with its embedding model and chunk count.`,
	RunE:  runCollections,
}

func init() {
	collectionsCmd.Flags().BoolVar(&collectionsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(collectionsCmd)
}

func runCollections(cmd *cobra.Command, _ []string) error {
	store, cleanup, err := buildVectorStore()
	if err != nil {
		return err
	}
	defer cleanup()

	infos, err := store.List(context.Background())
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	if collectionsJSON {
		return outputCollectionsJSON(cmd, infos)
	}
	return outputCollectionsTable(cmd, infos)
}

func outputCollectionsJSON(cmd *cobra.Command, infos []domain.CollectionInfo) error {
	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collections: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputCollectionsTable(cmd *cobra.Command, infos []domain.CollectionInfo) error {
	if len(infos) == 0 {
		cmd.Println("No collections yet. Run 'fathom ingest' first.")
		return nil
	}

	cmd.Println("Collections:")
	cmd.Println()
	for _, info := range infos {
		cmd.Printf("  %s\n", info.Key.String())
		cmd.Printf("      Model: %s (%d dims)\n", info.Model, info.Dimensions)
		cmd.Printf("      Chunks: %d\n", info.ChunkCount)
		cmd.Println()
	}
	return nil
}
