package domain

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single (role, text) entry in a conversation.
type Turn struct {
	Role    string
	Content string
}

// Conversation is the ordered memory of one question-answering session.
// It grows by append only and preserves ordering exactly as produced;
// it is cleared explicitly by the caller, never automatically.
type Conversation struct {
	turns []Turn
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Append adds a turn to the end of the conversation.
func (c *Conversation) Append(role, content string) {
	c.turns = append(c.turns, Turn{Role: role, Content: content})
}

// Turns returns a copy of the conversation history in order.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Clear removes all turns.
func (c *Conversation) Clear() {
	c.turns = nil
}
