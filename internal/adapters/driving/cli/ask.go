package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driving"
)

var (
	askCollection string
	askTopK       int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer questions from an indexed collection",
	Long: `Answers a question using the most relevant chunks from a collection.
With no question argument an interactive session starts; follow-up
questions share conversation memory until /clear or /exit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askCollection, "collection", "c", "unstructured-store", "collection to question")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "n", 0, "number of chunks to retrieve (config default when 0)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	answerer, cleanup, err := buildAnswerer(askCollection, askTopK)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(args) == 1 {
		answer, err := answerer.Ask(context.Background(), args[0])
		if err != nil {
			return err
		}
		cmd.Println(answer)
		return nil
	}

	return runAskSession(cmd, answerer)
}

// runAskSession is the interactive loop. It keeps going on answer
// errors so a mistyped question does not end the session.
func runAskSession(cmd *cobra.Command, answerer driving.Answerer) error {
	youPrompt := color.New(color.FgCyan, color.Bold).Sprint("you>")
	botPrompt := color.New(color.FgGreen, color.Bold).Sprint("fathom>")

	cmd.Printf("Asking collection %q. /clear forgets the conversation, /exit quits.\n", askCollection)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Printf("%s ", youPrompt)
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/clear":
			answerer.Clear()
			cmd.Println("Conversation cleared.")
			continue
		}

		answer, err := answerer.Ask(context.Background(), line)
		if err != nil {
			if errors.Is(err, domain.ErrRetrievalQA) {
				return err
			}
			cmd.Printf("%s %v\n", color.New(color.FgRed).Sprint("error:"), err)
			continue
		}
		cmd.Printf("%s %s\n", botPrompt, answer)
	}
}
