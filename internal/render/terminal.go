package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Terminal renders markdown for a terminal using glamour.
type Terminal struct {
	r *glamour.TermRenderer
}

// NewTerminal returns a renderer wrapping at width columns.
func NewTerminal(width int) (*Terminal, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Terminal{r: r}, nil
}

// NewAutoTerminal detects a light or dark background.
func NewAutoTerminal(width int) (*Terminal, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Terminal{r: r}, nil
}

// Render falls back to the raw text if glamour fails.
func (t *Terminal) Render(content string) string {
	if t == nil || t.r == nil {
		return content
	}
	out, err := t.r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
