// Package conversation holds the caller-owned message history of a chat
// session. A Log is a plain value: callers create one per session and pass
// it to whatever needs to read or extend it.
package conversation

import (
	"fmt"
	"strings"
)

// Role identifies who authored a message.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// Log is an ordered message history with a fixed starting point.
type Log struct {
	initial  []Message
	messages []Message
}

// New returns a log seeded with initial. Reset returns the log to this state.
func New(initial ...Message) *Log {
	l := &Log{initial: append([]Message(nil), initial...)}
	l.Reset()
	return l
}

// Reset discards everything appended since New.
func (l *Log) Reset() {
	l.messages = append(l.messages[:0:0], l.initial...)
}

// Append adds a message to the end of the log.
func (l *Log) Append(role Role, content string) error {
	switch role {
	case RoleAssistant, RoleUser:
	default:
		return fmt.Errorf("append message: unknown role %q", role)
	}
	l.messages = append(l.messages, Message{Role: role, Content: content})
	return nil
}

// Messages returns a copy of the history in order.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	return len(l.messages)
}

// LastAssistant returns the most recent assistant message, if any.
func (l *Log) LastAssistant() (string, bool) {
	for i := len(l.messages) - 1; i >= 0; i-- {
		if l.messages[i].Role == RoleAssistant {
			return l.messages[i].Content, true
		}
	}
	return "", false
}

// Transcript flattens the log into "role: content" lines.
func (l *Log) Transcript() string {
	var b strings.Builder
	for _, m := range l.messages {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	return b.String()
}
