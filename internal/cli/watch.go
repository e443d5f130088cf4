package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"nexus-chat/internal/events"
)

// FormatEvent renders one transcript event as a single line.
func FormatEvent(ev events.Event) string {
	at := ev.At.Local().Format(time.TimeOnly)
	switch ev.Type {
	case events.TypeTranscriptCleared:
		return fmt.Sprintf("%s  -- suhbat tozalandi --", at)
	default:
		text := strings.ReplaceAll(ev.Text, "\n", " ")
		return fmt.Sprintf("%s  %-9s %s", at, ev.Role, text)
	}
}

// Watch prints events from bus to out until ctx is done.
func Watch(ctx context.Context, bus events.Bus, out io.Writer) error {
	return bus.Subscribe(ctx, func(_ context.Context, ev events.Event) error {
		_, err := fmt.Fprintln(out, FormatEvent(ev))
		return err
	})
}
