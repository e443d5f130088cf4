package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is immutable once appended.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func newMessage(role Role, text string) Message {
	return Message{ID: uuid.New(), Role: role, Text: text, CreatedAt: time.Now()}
}

// Transcript is an ordered, append-only message list. It can only be emptied in bulk.
type Transcript struct {
	mu   sync.RWMutex
	msgs []Message
}

func (t *Transcript) Append(m Message) {
	t.mu.Lock()
	t.msgs = append(t.msgs, m)
	t.mu.Unlock()
}

// Reset replaces every message with msgs.
func (t *Transcript) Reset(msgs ...Message) {
	t.mu.Lock()
	t.msgs = append([]Message(nil), msgs...)
	t.mu.Unlock()
}

// Messages returns a copy in append order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Message(nil), t.msgs...)
}

func (t *Transcript) Find(id uuid.UUID) (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, m := range t.msgs {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// LastFrom returns the most recent message with the given role.
func (t *Transcript) LastFrom(role Role) (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(t.msgs) - 1; i >= 0; i-- {
		if t.msgs[i].Role == role {
			return t.msgs[i], true
		}
	}
	return Message{}, false
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.msgs)
}
