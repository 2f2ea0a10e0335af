package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk with
// fallback to embedded defaults.
//
// The store uses lazy initialisation: files are only created when first
// accessed, not in the constructor. This makes testing easier and
// avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
	watcher   *fsnotify.Watcher
}

// defaultPrompts contains embedded default prompts. These are used when
// user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptMapSummary: `Write a %s summary of the following content segments:

"%s"`,

	driven.PromptCombineSummary: `Write a %s summary of the following content that combines the previous summaries:

"%s"`,

	driven.PromptQASystem: `You are a helpful assistant answering questions about ingested documents.
Use the following retrieved context to answer. If the context does not
contain the answer, say you don't know rather than inventing one.

CONTEXT:
%s`,

	driven.PromptBlogTitle: `You are an expert blog content writer. Use Markdown formatting. Generate
a blog title for the %s. This title should be creative and SEO friendly`,

	driven.PromptBlogContent: `You are expert blog writer. Use Markdown formatting.
Generate a detailed blog content with detailed breakdown for the %s`,

	driven.PromptVerifyLanguage: `Your task is to determine whether the provided language is a valid, recognized human language.
Follow these rules:
    1. A valid language must be a real human language that is currently or historically used for communication (e.g., English, Yoruba, Mandarin, Latin).
    2. It may include dialects or standardized variants (e.g., Brazilian Portuguese, Swiss German).
    3. It must not be:
        - a fictional or constructed language (e.g., Klingon, Elvish)
        - an abbreviation that does not name a language (e.g., "lax," "eng lang")
        - a code unrelated to language (e.g., airport codes, product names)
    4. Output only one of the following:
        - "Valid language"
        - "Invalid language"

LANGUAGE TO CHECK:
%s`,

	driven.PromptTranslate: `Translate the following blog into %s.
- Maintain the original tone, style, and formatting.
- Adapt cultural references and idioms to be appropriate for the target language.
- Answer ONLY with a JSON object of the form {"title": "...", "content": "..."} holding the translated title and content.

ORIGINAL TITLE:
%s

ORIGINAL CONTENT:
%s`,
}

// NewPromptStore creates a new file-based prompt store. If promptDir is
// empty, defaults to ~/.fathom/prompts.
//
// The constructor does not perform any I/O; directory creation and file
// writes happen lazily on first Load call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".fathom", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name. On first call,
// initialises the prompt directory and creates default files. Falls
// back to the embedded default if the file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Double-check so a concurrent load keeps its value.
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Watch starts an fsnotify watcher on the prompt directory so that
// edits take effect without restarting. Close stops it.
func (s *PromptStore) Watch() error {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	if err := watcher.Add(s.promptDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch prompt directory: %w", err)
	}

	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					s.Reload()
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}

// Close stops the watcher if one is running.
func (s *PromptStore) Close() error {
	s.mu.Lock()
	watcher := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if watcher != nil {
		return watcher.Close()
	}
	return nil
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files. Called
// once via sync.Once on first Load.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Fathom Prompts

This directory contains customisable prompts used by fathom's LLM features.

## Files

- ` + "`map_summary.txt`" + ` - Summarises one content segment (map phase)
- ` + "`combine_summary.txt`" + ` - Combines segment summaries (reduce phase)
- ` + "`qa_system.txt`" + ` - System prompt for retrieval question answering
- ` + "`blog_title.txt`" + ` - Generates a blog title from a topic
- ` + "`blog_content.txt`" + ` - Generates the blog body from a topic
- ` + "`verify_language.txt`" + ` - Classifies a language name as real or not
- ` + "`translate_blog.txt`" + ` - Translates the blog, answering with JSON

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the
next command, or immediately when the prompt watcher is running.

## Format Placeholders

Prompts use Go fmt placeholders:
- ` + "`%s`" + ` - String (e.g., the topic, segment text or language)

Ensure customised prompts maintain placeholders in the correct positions.
`
	return os.WriteFile(path, []byte(content), 0600)
}
