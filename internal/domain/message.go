package domain

import (
	"fmt"
	"time"
)

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	// MessageRoleUser marks a message typed by the current identity.
	MessageRoleUser MessageRole = "user"
	// MessageRoleAssistant marks a message produced by the assistant.
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is one entry in a session's ordered chat history.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	AvatarRef string      `json:"avatar_ref,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Greeting builds the assistant message that opens every fresh session.
func Greeting(identity Identity) Message {
	return Message{
		Role:      MessageRoleAssistant,
		Content:   fmt.Sprintf("Hi %s! How can I help you today?", identity.FirstName()),
		CreatedAt: time.Now(),
	}
}

// ChatTranscript is the persisted form of a session's identity and history.
type ChatTranscript struct {
	SessionID    string
	IdentityJSON string
	MessagesJSON string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
