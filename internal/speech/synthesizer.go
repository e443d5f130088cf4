package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandSynthesizer speaks text through a local TTS program such as espeak-ng.
// The language is passed with -v; the text is written on stdin.
type CommandSynthesizer struct {
	Command string
	Args    []string
}

// NewCommandSynthesizer returns nil if command is empty.
func NewCommandSynthesizer(command string) *CommandSynthesizer {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	return &CommandSynthesizer{Command: fields[0], Args: fields[1:]}
}

// Speak blocks until playback ends. Cancelling ctx stops playback and returns ctx.Err().
func (s *CommandSynthesizer) Speak(ctx context.Context, text, lang string) error {
	if s == nil || s.Command == "" {
		return errors.New("no speech synthesizer configured")
	}
	args := append([]string{}, s.Args...)
	if lang != "" {
		args = append(args, "-v", voiceName(lang))
	}
	cmd := exec.CommandContext(ctx, s.Command, args...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", s.Command, err)
	}
	return nil
}

// voiceName maps a BCP 47 tag to an espeak voice: "uz-UZ" -> "uz".
func voiceName(lang string) string {
	if i := strings.IndexByte(lang, '-'); i > 0 {
		return strings.ToLower(lang[:i])
	}
	return strings.ToLower(lang)
}
