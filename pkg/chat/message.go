// Package chat provides the conversation data model: messages and the
// ordered, single-writer conversation log.
package chat

import "time"

// TimeLayout is the wall-clock layout attached to messages (zero-padded HH:MM).
const TimeLayout = "15:04"

// Role identifies the message sender.
type Role string

const (
	// RoleUser is for user messages.
	RoleUser Role = "user"

	// RoleAssistant is for assistant responses.
	RoleAssistant Role = "assistant"
)

// Message is one conversation entry. Messages are immutable once created;
// insertion order in the log defines prompt history order.
type Message struct {
	// Text is the message content.
	Text string

	// Role identifies the sender.
	Role Role

	// Time is the HH:MM wall-clock timestamp of creation.
	Time string
}

// NewMessage creates a message stamped with the current wall-clock time.
func NewMessage(text string, role Role) Message {
	return Message{
		Text: text,
		Role: role,
		Time: time.Now().Format(TimeLayout),
	}
}
