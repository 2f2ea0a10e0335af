package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_OneShot(t *testing.T) {
	services := setupTestServices(t)

	out, err := executeCommand(t, "ask", "what is an embedding?")

	require.NoError(t, err)
	assert.Contains(t, out, "answer to: what is an embedding?")
	assert.Equal(t, []string{"what is an embedding?"}, services.answerer.asked)
}

func TestAskCmd_InteractiveSession(t *testing.T) {
	services := setupTestServices(t)

	rootCmd.SetIn(strings.NewReader("first question\n\n/clear\nsecond question\n/exit\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	out, err := executeCommand(t, "ask")

	require.NoError(t, err)
	assert.Equal(t, []string{"first question", "second question"}, services.answerer.asked)
	assert.Equal(t, 1, services.answerer.cleared)
	assert.Contains(t, out, "Conversation cleared.")
	assert.Contains(t, out, "answer to: first question")
}

func TestAskCmd_InteractiveEndsOnEOF(t *testing.T) {
	services := setupTestServices(t)

	rootCmd.SetIn(strings.NewReader("only question\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	_, err := executeCommand(t, "ask")

	require.NoError(t, err)
	assert.Equal(t, []string{"only question"}, services.answerer.asked)
}

func TestAskCmd_HasCollectionFlag(t *testing.T) {
	flag := askCmd.Flags().Lookup("collection")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, "unstructured-store", flag.DefValue)
}
