package domain

// BlogRecord holds the generated blog fields. All fields default to
// empty strings; the translated pair is only set when a target language
// was requested.
type BlogRecord struct {
	Title             string `json:"title"`
	Content           string `json:"content"`
	TranslatedTitle   string `json:"translated_title,omitempty"`
	TranslatedContent string `json:"translated_content,omitempty"`
}

// LanguageCheck is the outcome of validating a target language.
type LanguageCheck string

// Language check outcomes.
const (
	LanguageUnchecked LanguageCheck = "unchecked"
	LanguageValid     LanguageCheck = "valid"
	LanguageInvalid   LanguageCheck = "invalid"
)

// BlogState is the state carried through the blog generation graph.
// Each node sets exactly one field set and never reads a field before
// the producing node has run.
type BlogState struct {
	// Topic is the subject to write about. Required.
	Topic string

	// Language is the optional translation target.
	Language string

	// LanguageCheck records whether Language named a real human language.
	LanguageCheck LanguageCheck

	// Blog holds the generated output.
	Blog BlogRecord
}
