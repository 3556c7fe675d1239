package chat

import (
	"strings"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	// DefaultTitle labels a conversation that has no messages yet.
	DefaultTitle = "New Conversation"

	// DateLayout and TimeLayout format the display strings stored on
	// conversations and messages.
	DateLayout = "January 2, 2006"
	TimeLayout = "3:04 PM"

	titleLimit = 20
)

type Message struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type Conversation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CreatedDate string    `json:"date"`
	Active      bool      `json:"active"`
	Messages    []Message `json:"messages"`
}

func (c Conversation) clone() Conversation {
	out := c
	out.Messages = append([]Message{}, c.Messages...)
	return out
}

// Snapshot is a read-only copy of the store state handed to callers.
type Snapshot struct {
	Conversations []Conversation `json:"conversations"`
	ActiveID      string         `json:"activeId"`
	Loading       bool           `json:"loading"`
	LastError     string         `json:"lastError,omitempty"`
}

// Completion describes a finished submission. Err is set when the
// generator failed.
type Completion struct {
	ConversationID string
	Query          string
	Summary        string
	Err            error
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Title derives a conversation title from its first user message.
func Title(text string) string {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if len(r) > titleLimit {
		return string(r[:titleLimit]) + "..."
	}
	return text
}

// TitleMatches reports whether c's title contains q, ignoring case and
// surrounding spaces. An empty q matches every conversation.
func TitleMatches(c Conversation, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	return q == "" || strings.Contains(strings.ToLower(c.Title), q)
}
