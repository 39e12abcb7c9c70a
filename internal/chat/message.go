// Package chat holds the conversation model and the round-trip session that
// drives one chat exchange against the API.
package chat

import (
	"time"

	"github.com/akontos/hackmate/internal/api"
	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation entry. Messages are immutable once appended;
// sources keep the order the server returned them in.
type Message struct {
	ID        string
	Role      string
	Content   string
	Sources   []api.Source
	IsError   bool
	Timestamp time.Time
}

func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func NewAssistantMessage(content string, sources []api.Source) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Sources:   sources,
		Timestamp: time.Now(),
	}
}

func newErrorMessage(content string) Message {
	m := NewAssistantMessage(content, nil)
	m.IsError = true
	return m
}
