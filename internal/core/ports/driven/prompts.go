package driven

// PromptStore provides access to LLM prompt templates. Implementations
// may load prompts from user-editable files, embed them in the binary,
// or both.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access. Useful when prompts have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and
// providers.
const (
	// PromptMapSummary summarises one document segment.
	// Placeholders: %s (verbosity adjective), %s (segment text).
	PromptMapSummary = "map_summary"

	// PromptCombineSummary combines the map-phase summaries.
	// Placeholders: %s (verbosity adjective), %s (joined summaries).
	PromptCombineSummary = "combine_summary"

	// PromptQASystem is the system prompt for retrieval question
	// answering. Placeholder: %s (retrieved context).
	PromptQASystem = "qa_system"

	// PromptBlogTitle generates a blog title. Placeholder: %s (topic).
	PromptBlogTitle = "blog_title"

	// PromptBlogContent generates the blog body. Placeholder: %s (topic).
	PromptBlogContent = "blog_content"

	// PromptVerifyLanguage classifies a language name as real or not.
	// Placeholder: %s (language). The model must answer with exactly one
	// of the two literal labels.
	PromptVerifyLanguage = "verify_language"

	// PromptTranslate translates the blog into a target language and
	// answers with a JSON object. Placeholders: %s (language),
	// %s (title), %s (content).
	PromptTranslate = "translate_blog"
)
