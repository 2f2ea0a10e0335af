// Package cli implements the fathom command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/fathom-labs/fathom-cli/internal/logger"
)

const version = "0.1.0"

var (
	verbose   bool
	configDir string
	dataDir   string

	chatProvider   string
	chatModel      string
	embedProvider  string
	embedModel     string
	apiKeyOverride string
)

var rootCmd = &cobra.Command{
	Use:   "fathom",
	Short: "Ingest, summarise and question your documents",
	Long: `Fathom indexes PDFs, text files, markdown, web articles and video
transcripts into a local vector store, then answers questions and
writes summaries grounded in that content. It can also draft blog
posts, optionally translated into another language.

Provider credentials are read from the environment or a .env file;
defaults live in ~/.fathom/config.toml and can be overridden per
invocation with the --chat-provider, --chat-model,
--embedding-provider and --embedding-model flags.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline progress to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.fathom)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "vector store directory (default ~/.fathom/data)")

	rootCmd.PersistentFlags().StringVar(&chatProvider, "chat-provider", "", "chat provider: openai, groq or ollama")
	rootCmd.PersistentFlags().StringVar(&chatModel, "chat-model", "", "chat model (provider default when empty)")
	rootCmd.PersistentFlags().StringVar(&embedProvider, "embedding-provider", "", "embedding provider: openai, huggingface or ollama")
	rootCmd.PersistentFlags().StringVar(&embedModel, "embedding-model", "", "embedding model (provider default when empty)")
	rootCmd.PersistentFlags().StringVar(&apiKeyOverride, "api-key", "", "API key override for this invocation")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
