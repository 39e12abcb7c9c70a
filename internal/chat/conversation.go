package chat

import (
	"github.com/akontos/hackmate/internal/api"
	"github.com/lithammer/shortuuid/v4"
)

// Conversation is an insertion-ordered message list with a stable ID.
type Conversation struct {
	ID       string
	messages []Message
}

func NewConversation() *Conversation {
	return &Conversation{ID: shortuuid.New()}
}

func (c *Conversation) Append(m Message) {
	c.messages = append(c.messages, m)
}

// Messages returns a copy; the conversation's own slice never escapes.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int {
	return len(c.messages)
}

// History converts the conversation into wire-format turns, newest last.
func (c *Conversation) History() []api.HistoryEntry {
	history := make([]api.HistoryEntry, 0, len(c.messages))
	for _, m := range c.messages {
		history = append(history, api.HistoryEntry{Role: m.Role, Content: m.Content})
	}
	return history
}
