package events

import "context"

// NoOp drops every event. Used when EVENTS_PROVIDER=none.
type NoOp struct{}

func (NoOp) Publish(context.Context, Event) error { return nil }

// Subscribe blocks until ctx is done; nothing is ever delivered.
func (NoOp) Subscribe(ctx context.Context, _ Handler) error {
	<-ctx.Done()
	return nil
}
