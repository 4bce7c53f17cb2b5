package llm

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Conversation is the memory of one interview session. Each session owns its
// own Conversation so two sessions never see each other's history.
type Conversation struct {
	SystemPrompt string
	messages     []Message
}

func NewConversation(systemPrompt string) *Conversation {
	return &Conversation{SystemPrompt: systemPrompt}
}

func (c *Conversation) Append(role Role, content string) {
	c.messages = append(c.messages, Message{Role: role, Content: content})
}

// Messages returns a copy of the history, oldest first.
func (c *Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

func (c *Conversation) Len() int {
	return len(c.messages)
}
