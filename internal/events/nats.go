package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const subject = "chat.events"

// NewNATS constructs a thin NATS-based bus.
func NewNATS(log *slog.Logger, nc *nats.Conn) Bus {
	return &natsBus{log: log, nc: nc}
}

type natsBus struct {
	log *slog.Logger
	nc  *nats.Conn
}

func (b *natsBus) Publish(_ context.Context, ev Event) error {
	if ev.Type == "" {
		return errors.New("event type required")
	}
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.nc.Publish(subject, body)
}

func (b *natsBus) Subscribe(ctx context.Context, handler Handler) error {
	sub, err := b.nc.Subscribe(subject, func(msg *nats.Msg) {
		var ev Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			b.log.Error("failed to decode event", "err", err)
			return
		}
		if err := handler(ctx, ev); err != nil {
			b.log.Error("event handler failed", "id", ev.ID, "type", ev.Type, "err", err)
		}
	})
	if err != nil {
		return err
	}
	<-ctx.Done()
	return sub.Unsubscribe()
}
