package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
)

var blogLanguage string

var blogCmd = &cobra.Command{
	Use:   "blog [topic]",
	Short: "Draft a blog post about a topic",
	Long: `Generates a blog title and body for the topic. With --language the
language name is checked first and the finished post is translated
into it; an unrecognised language stops the run before anything is
generated.`,
	Args: cobra.ExactArgs(1),
	RunE: runBlog,
}

func init() {
	blogCmd.Flags().StringVarP(&blogLanguage, "language", "l", "", "translate the post into this language")
	rootCmd.AddCommand(blogCmd)
}

func runBlog(cmd *cobra.Command, args []string) error {
	writer, cleanup, err := buildBlogWriter()
	if err != nil {
		return err
	}
	defer cleanup()

	state, err := writer.Write(context.Background(), args[0], blogLanguage)
	if err != nil {
		return err
	}

	if state.LanguageCheck == domain.LanguageInvalid {
		cmd.Printf("%q is not a recognised language, nothing was generated.\n", state.Language)
		return nil
	}

	heading := color.New(color.Bold)
	cmd.Println(heading.Sprint(state.Blog.Title))
	cmd.Println()
	cmd.Println(state.Blog.Content)

	if state.Blog.TranslatedTitle != "" || state.Blog.TranslatedContent != "" {
		cmd.Println()
		cmd.Println(heading.Sprintf("--- %s ---", state.Language))
		cmd.Println()
		cmd.Println(heading.Sprint(state.Blog.TranslatedTitle))
		cmd.Println()
		cmd.Println(state.Blog.TranslatedContent)
	}
	return nil
}
