package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fathom-labs/fathom-cli/internal/adapters/driven/config/file"
	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/services"
)

var (
	setChatProvider  string
	setChatModel     string
	setEmbedProvider string
	setEmbedModel    string
	setChunkSize     int
	setChunkOverlap  int
	setTopK          int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage fathom settings",
	Long: `View and change persisted defaults: providers, models, chunking and
retrieval parameters. API keys are stored separately with
'fathom settings key'.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change persisted defaults",
	Long: `Persists the given flags as defaults in config.toml. Flags that are
not given are left unchanged.`,
	RunE: runSettingsSet,
}

var settingsKeyCmd = &cobra.Command{
	Use:   "key [provider]",
	Short: "Store an API key for a provider",
	Long: `Prompts for the provider's API key without echoing it and stores it
in the .env file in the configuration directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsKey,
}

func init() {
	settingsSetCmd.Flags().StringVar(&setChatProvider, "chat-provider", "", "default chat provider")
	settingsSetCmd.Flags().StringVar(&setChatModel, "chat-model", "", "default chat model")
	settingsSetCmd.Flags().StringVar(&setEmbedProvider, "embedding-provider", "", "default embedding provider")
	settingsSetCmd.Flags().StringVar(&setEmbedModel, "embedding-model", "", "default embedding model")
	settingsSetCmd.Flags().IntVar(&setChunkSize, "chunk-size", 0, "chunk size in characters")
	settingsSetCmd.Flags().IntVar(&setChunkOverlap, "chunk-overlap", 0, "chunk overlap in characters")
	settingsSetCmd.Flags().IntVar(&setTopK, "top-k", 0, "default retrieval depth")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cfgStore, creds, err := loadSetup()
	if err != nil {
		return err
	}
	cfg := cfgStore.Config()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Chat]")
	cmd.Printf("  Provider: %s\n", cfg.ChatProvider().Description())
	cmd.Printf("  Model: %s\n", orDefault(cfg.Defaults.ChatModel))
	printKeyStatus(cmd, cfg.ChatProvider(), creds)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", cfg.EmbeddingProvider().Description())
	cmd.Printf("  Model: %s\n", orDefault(cfg.Defaults.EmbeddingModel))
	printKeyStatus(cmd, cfg.EmbeddingProvider(), creds)
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d\n", cfg.ChunkSize())
	cmd.Printf("  Overlap: %d\n", cfg.ChunkOverlap())
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top-k: %d\n", cfg.TopK())
	cmd.Println()

	cmd.Printf("Config file: %s\n", cfgStore.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	if err := validateProviderFlag(setChatProvider, services.ModelKindChat); err != nil {
		return err
	}
	if err := validateProviderFlag(setEmbedProvider, services.ModelKindEmbedding); err != nil {
		return err
	}

	cfgStore, _, err := loadSetup()
	if err != nil {
		return err
	}

	changed := false
	err = cfgStore.Update(func(cfg *file.Config) {
		if cmd.Flags().Changed("chat-provider") {
			cfg.Defaults.ChatProvider = setChatProvider
			changed = true
		}
		if cmd.Flags().Changed("chat-model") {
			cfg.Defaults.ChatModel = setChatModel
			changed = true
		}
		if cmd.Flags().Changed("embedding-provider") {
			cfg.Defaults.EmbeddingProvider = setEmbedProvider
			changed = true
		}
		if cmd.Flags().Changed("embedding-model") {
			cfg.Defaults.EmbeddingModel = setEmbedModel
			changed = true
		}
		if cmd.Flags().Changed("chunk-size") {
			cfg.Chunking.Size = setChunkSize
			changed = true
		}
		if cmd.Flags().Changed("chunk-overlap") {
			cfg.Chunking.Overlap = setChunkOverlap
			changed = true
		}
		if cmd.Flags().Changed("top-k") {
			cfg.Retrieval.TopK = setTopK
			changed = true
		}
	})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	if !changed {
		cmd.Println("Nothing to change. See 'fathom settings set --help' for the available flags.")
		return nil
	}
	cmd.Println("Settings saved.")
	return nil
}

func runSettingsKey(cmd *cobra.Command, args []string) error {
	provider := domain.AIProvider(strings.ToLower(args[0]))
	envVar, ok := credentialEnvVar(provider)
	if !ok {
		return fmt.Errorf("provider %q does not use an API key", args[0])
	}

	cmd.Printf("Enter %s API key: ", provider)
	key := readSecret(cmd)
	cmd.Println()
	if key == "" {
		return errors.New("no key entered")
	}

	dir, err := fathomDir()
	if err != nil {
		return err
	}
	if err := writeEnvKey(dir, envVar, key); err != nil {
		return err
	}

	cmd.Printf("Stored %s in %s\n", envVar, filepath.Join(dir, ".env"))
	return nil
}

// credentialEnvVar maps a provider to its .env variable.
func credentialEnvVar(provider domain.AIProvider) (string, bool) {
	switch provider {
	case domain.AIProviderOpenAI:
		return file.EnvOpenAIKey, true
	case domain.AIProviderGroq:
		return file.EnvGroqKey, true
	case domain.AIProviderHuggingFace:
		return file.EnvHuggingFaceKey, true
	default:
		return "", false
	}
}

// writeEnvKey sets or replaces one variable in the directory's .env
// file, keeping every other line as it is.
func writeEnvKey(dir, envVar, value string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	path := filepath.Join(dir, ".env")

	var lines []string
	if data, err := os.ReadFile(path); err == nil {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}

	entry := envVar + "=" + value
	replaced := false
	for i, line := range lines {
		if strings.HasPrefix(line, envVar+"=") {
			lines[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, entry)
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func validateProviderFlag(value string, kind services.ModelKind) error {
	if value == "" {
		return nil
	}
	provider := domain.AIProvider(value)
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, value)
	}
	var models []string
	if kind == services.ModelKindChat {
		models = services.ChatModels(provider)
	} else {
		models = services.EmbeddingModels(provider)
	}
	if len(models) == 0 {
		return fmt.Errorf("%w: provider %s has no %s models", domain.ErrUnsupportedModel, provider, kind)
	}
	return nil
}

func printKeyStatus(cmd *cobra.Command, provider domain.AIProvider, creds domain.Credentials) {
	if !provider.RequiresAPIKey() {
		return
	}
	if key := creds.ForProvider(provider); key != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
}

func orDefault(model string) string {
	if model == "" {
		return "(provider default)"
	}
	return model
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret(cmd *cobra.Command) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
