package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

func TestPublishWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first publish succeeds", 0, 3, 1, false},
		{"recovers on third attempt", 2, 3, 3, false},
		{"gives up after attempts", 5, 3, 3, true},
		{"zero attempts still publishes once", 0, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(MockBus)
			if tt.failures > 0 {
				bus.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats down")).Times(tt.failures)
			}
			bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

			err := PublishWithRetry(context.Background(), bus, Event{Type: TypeMessageAppended}, tt.attempts, time.Millisecond)

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			bus.AssertNumberOfCalls(t, "Publish", tt.wantCalls)
		})
	}
}

func TestNoOpSubscribeReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NoOp{}.Subscribe(ctx, func(context.Context, Event) error { return nil }) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Subscribe did not return after cancel")
	}
	if err := (NoOp{}).Publish(context.Background(), Event{}); err != nil {
		t.Errorf("unexpected publish error %v", err)
	}
}
