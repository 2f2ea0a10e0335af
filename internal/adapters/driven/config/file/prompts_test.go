package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
)

func TestPromptStore_LoadDefault(t *testing.T) {
	store, err := NewPromptStore(filepath.Join(t.TempDir(), "prompts"))
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptVerifyLanguage)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Valid language")
	assert.Contains(t, prompt, "Invalid language")
}

func TestPromptStore_CreatesDefaultFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptMapSummary)
	require.NoError(t, err)

	for name := range defaultPrompts {
		_, err := os.Stat(filepath.Join(dir, name+".txt"))
		assert.NoError(t, err, "expected prompt file for %s", name)
	}
	_, err = os.Stat(filepath.Join(dir, "README.md"))
	assert.NoError(t, err)
}

func TestPromptStore_CustomFileWins(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	require.NoError(t, os.MkdirAll(dir, 0700))
	custom := "Summarise in the style of a telegram: %s %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, driven.PromptMapSummary+".txt"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptMapSummary)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_ReloadPicksUpEdits(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	original, err := store.Load(driven.PromptBlogTitle)
	require.NoError(t, err)

	edited := "New title prompt for %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, driven.PromptBlogTitle+".txt"), []byte(edited), 0600))

	// Cache still holds the original until a reload.
	cached, err := store.Load(driven.PromptBlogTitle)
	require.NoError(t, err)
	assert.Equal(t, original, cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptBlogTitle)
	require.NoError(t, err)
	assert.Equal(t, edited, fresh)
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(filepath.Join(t.TempDir(), "prompts"))
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")
	assert.Error(t, err)
}
