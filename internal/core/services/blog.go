package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driving"
	"github.com/fathom-labs/fathom-cli/internal/logger"
)

// Ensure BlogService implements the interface.
var _ driving.BlogWriter = (*BlogService)(nil)

// graphState is a node in the blog generation graph.
type graphState string

// Graph nodes. The run always begins at stateStart and the driver loop
// stops at stateEnd.
const (
	stateStart             graphState = "start"
	stateVerifyLanguage    graphState = "verify_language"
	stateTitleCreation     graphState = "title_creation"
	stateContentGeneration graphState = "content_generation"
	stateTranslation       graphState = "translation"
	stateEnd               graphState = "end"
)

// Language check labels the classifier must answer with.
const (
	labelValidLanguage   = "Valid language"
	labelInvalidLanguage = "Invalid language"
)

// BlogService generates a blog post through an explicit finite state
// machine: title and content generation, with optional language
// verification and translation when a target language is requested.
type BlogService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewBlogService creates a blog generation service.
func NewBlogService(llm driven.LLMService, prompts driven.PromptStore) *BlogService {
	return &BlogService{
		llm:     llm,
		prompts: prompts,
	}
}

// Write generates a blog for the topic. When language is non-empty the
// language is verified first; an unrecognised language terminates the
// run before any content is generated.
func (s *BlogService) Write(ctx context.Context, topic, language string) (*domain.BlogState, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", domain.ErrInvalidInput)
	}

	state := &domain.BlogState{
		Topic:         topic,
		Language:      strings.TrimSpace(language),
		LanguageCheck: domain.LanguageUnchecked,
	}

	logger.Section("blog graph")
	current := stateStart
	for current != stateEnd {
		next, err := s.step(ctx, current, state)
		if err != nil {
			return nil, fmt.Errorf("blog node %s: %w", current, err)
		}
		logger.Debug("blog graph: %s -> %s", current, next)
		current = next
	}

	return state, nil
}

// step executes one node and returns the next. Only verifyLanguage has
// a conditional edge; every other transition is fixed.
func (s *BlogService) step(ctx context.Context, current graphState, state *domain.BlogState) (graphState, error) {
	switch current {
	case stateStart:
		if state.Language != "" {
			return stateVerifyLanguage, nil
		}
		return stateTitleCreation, nil

	case stateVerifyLanguage:
		if err := s.verifyLanguage(ctx, state); err != nil {
			return stateEnd, err
		}
		if state.LanguageCheck == domain.LanguageValid {
			return stateTitleCreation, nil
		}
		return stateEnd, nil

	case stateTitleCreation:
		if err := s.createTitle(ctx, state); err != nil {
			return stateEnd, err
		}
		return stateContentGeneration, nil

	case stateContentGeneration:
		if err := s.generateContent(ctx, state); err != nil {
			return stateEnd, err
		}
		if state.LanguageCheck == domain.LanguageValid {
			return stateTranslation, nil
		}
		return stateEnd, nil

	case stateTranslation:
		if err := s.translate(ctx, state); err != nil {
			return stateEnd, err
		}
		return stateEnd, nil

	default:
		return stateEnd, fmt.Errorf("unknown graph state %q", current)
	}
}

// verifyLanguage asks the model for a constrained two-label
// classification of the target language.
func (s *BlogService) verifyLanguage(ctx context.Context, state *domain.BlogState) error {
	template, err := s.prompts.Load(driven.PromptVerifyLanguage)
	if err != nil {
		return fmt.Errorf("load verify prompt: %w", err)
	}

	answer, err := s.llm.Generate(ctx, fmt.Sprintf(template, state.Language),
		driven.GenerateOptions{Temperature: generationTemperature})
	if err != nil {
		return err
	}

	switch {
	case strings.Contains(answer, labelInvalidLanguage):
		state.LanguageCheck = domain.LanguageInvalid
	case strings.Contains(answer, labelValidLanguage):
		state.LanguageCheck = domain.LanguageValid
	default:
		return fmt.Errorf("%w: unexpected language check answer %q", domain.ErrGeneration, strings.TrimSpace(answer))
	}
	return nil
}

// createTitle generates the blog title.
func (s *BlogService) createTitle(ctx context.Context, state *domain.BlogState) error {
	template, err := s.prompts.Load(driven.PromptBlogTitle)
	if err != nil {
		return fmt.Errorf("load title prompt: %w", err)
	}

	title, err := s.llm.Generate(ctx, fmt.Sprintf(template, state.Topic),
		driven.GenerateOptions{Temperature: generationTemperature})
	if err != nil {
		return err
	}
	state.Blog.Title = strings.TrimSpace(title)
	return nil
}

// generateContent generates the blog body.
func (s *BlogService) generateContent(ctx context.Context, state *domain.BlogState) error {
	template, err := s.prompts.Load(driven.PromptBlogContent)
	if err != nil {
		return fmt.Errorf("load content prompt: %w", err)
	}

	content, err := s.llm.Generate(ctx, fmt.Sprintf(template, state.Topic),
		driven.GenerateOptions{Temperature: generationTemperature})
	if err != nil {
		return err
	}
	state.Blog.Content = strings.TrimSpace(content)
	return nil
}

// translatedBlog is the JSON shape the translation prompt requests.
type translatedBlog struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// translate fills the translated title and content, leaving the
// originals untouched.
func (s *BlogService) translate(ctx context.Context, state *domain.BlogState) error {
	template, err := s.prompts.Load(driven.PromptTranslate)
	if err != nil {
		return fmt.Errorf("load translate prompt: %w", err)
	}

	prompt := fmt.Sprintf(template, state.Language, state.Blog.Title, state.Blog.Content)
	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: generationTemperature})
	if err != nil {
		return err
	}

	translated, err := parseTranslation(answer)
	if err != nil {
		return err
	}
	state.Blog.TranslatedTitle = translated.Title
	state.Blog.TranslatedContent = translated.Content
	return nil
}

// parseTranslation extracts the JSON object from a model answer,
// tolerating Markdown code fences and surrounding prose.
func parseTranslation(answer string) (translatedBlog, error) {
	cleaned := strings.TrimSpace(answer)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return translatedBlog{}, fmt.Errorf("%w: translation answer contains no JSON object", domain.ErrGeneration)
	}

	var out translatedBlog
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &out); err != nil {
		return translatedBlog{}, fmt.Errorf("%w: decode translation: %w", domain.ErrGeneration, err)
	}
	if out.Title == "" && out.Content == "" {
		return translatedBlog{}, fmt.Errorf("%w: translation answer is empty", domain.ErrGeneration)
	}
	return out, nil
}
