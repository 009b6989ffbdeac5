package chat

import "sync"

// Log is the ordered conversation log. It has a single writer (the
// interaction controller); readers receive snapshots and never observe
// partial mutation. Reset replaces the whole log, never part of it.
type Log struct {
	mu   sync.Mutex
	msgs []Message
}

// NewLog creates a log seeded with a single assistant greeting.
func NewLog(greeting string) *Log {
	l := &Log{}
	l.msgs = append(l.msgs, NewMessage(greeting, RoleAssistant))
	return l
}

// Append stamps and appends a message, returning the stored copy.
func (l *Log) Append(text string, role Role) Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := NewMessage(text, role)
	l.msgs = append(l.msgs, msg)
	return msg
}

// Messages returns a snapshot of the log. The snapshot is safe to hand to
// concurrent readers; it is never mutated by later appends.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

// Reset replaces the entire log with a single fresh assistant greeting.
func (l *Log) Reset(greeting string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.msgs = []Message{NewMessage(greeting, RoleAssistant)}
}
