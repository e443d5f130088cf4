package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nexus-chat/internal/events"
)

func TestFormatEvent(t *testing.T) {
	at := time.Date(2025, 1, 2, 10, 30, 0, 0, time.Local)

	line := FormatEvent(events.Event{Type: events.TypeMessageAppended, Role: "assistant", Text: "bir\nikki", At: at})
	assert.Equal(t, "10:30:00  assistant bir ikki", line)

	line = FormatEvent(events.Event{Type: events.TypeTranscriptCleared, At: at})
	assert.True(t, strings.HasSuffix(line, "suhbat tozalandi --"))
}

func TestWatchPrintsDeliveredEvents(t *testing.T) {
	bus := new(events.MockBus)
	bus.On("Subscribe", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			handler := args.Get(1).(events.Handler)
			_ = handler(context.Background(), events.Event{Type: events.TypeMessageAppended, Role: "user", Text: "salom"})
		}).
		Return(nil)

	out := &bytes.Buffer{}
	require.NoError(t, Watch(context.Background(), bus, out))

	assert.Contains(t, out.String(), "user      salom")
	bus.AssertExpectations(t)
}
