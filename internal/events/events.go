package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"nexus-chat/internal/retry"
)

// Type enumerates transcript event categories.
type Type string

const (
	TypeMessageAppended   Type = "message.appended"
	TypeTranscriptCleared Type = "transcript.cleared"
)

// Event describes a transcript change.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      Type      `json:"type"`
	MessageID uuid.UUID `json:"message_id,omitempty"`
	Role      string    `json:"role,omitempty"`
	Text      string    `json:"text,omitempty"`
	At        time.Time `json:"at"`
}

type Handler func(context.Context, Event) error

// Bus publishes transcript events and lets observers follow them.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context, handler Handler) error
}

// PublishWithRetry attempts to publish with retries and exponential backoff.
func PublishWithRetry(ctx context.Context, b Bus, ev Event, attempts int, base time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	return retry.Do(ctx, retry.Policy{Delays: retry.Schedule(attempts-1, base)}, func(ctx context.Context, _ int) error {
		return b.Publish(ctx, ev)
	})
}
