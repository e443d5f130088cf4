package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"nexus-chat/internal/chat"
)

const (
	prompt         = "> "
	continuePrompt = ". "
	typingNotice   = "Nexus AI yozmoqda..."
	confirmClear   = "Haqiqatan ham suhbatni tozalaysizmi? [y/N] "
	helpText       = `Buyruqlar:
  /clear  suhbatni tozalash
  /copy   oxirgi javobni nusxalash
  /speak  oxirgi javobni tinglash / to'xtatish
  /voice  ovozli kiritish
  /quit   chiqish
Qatorni "\" bilan tugatsangiz, keyingi qatorda davom etadi.`
)

// REPL is the terminal surface of a chat session: Enter submits a line, a trailing
// backslash continues it on the next line.
type REPL struct {
	Session *chat.Session
	Voice   *chat.VoiceInput
	Render  func(string) string
	In      io.Reader
	Out     io.Writer

	scanner *bufio.Scanner
}

// Run reads until EOF, /quit or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	if r.Render == nil {
		r.Render = func(s string) string { return s }
	}
	r.scanner = bufio.NewScanner(r.In)
	r.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		input, ok := r.readInput()
		if !ok {
			return r.scanner.Err()
		}
		if strings.HasPrefix(strings.TrimSpace(input), "/") {
			quit, err := r.command(ctx, strings.TrimSpace(input))
			if err != nil {
				fmt.Fprintln(r.Out, "xato:", err)
			}
			if quit {
				return nil
			}
			continue
		}
		r.send(ctx, input)
	}
}

func (r *REPL) readInput() (string, bool) {
	var lines []string
	fmt.Fprint(r.Out, prompt)
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if strings.HasSuffix(line, `\`) {
			lines = append(lines, strings.TrimSuffix(line, `\`))
			fmt.Fprint(r.Out, continuePrompt)
			continue
		}
		lines = append(lines, line)
		return strings.Join(lines, "\n"), true
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n"), true
	}
	return "", false
}

func (r *REPL) send(ctx context.Context, input string) {
	if strings.TrimSpace(input) == "" {
		return
	}
	fmt.Fprintln(r.Out, typingNotice)
	reply, ok := r.Session.Send(ctx, input)
	if ok {
		r.printMessage(reply)
	}
}

func (r *REPL) printMessage(m chat.Message) {
	fmt.Fprintln(r.Out, r.Render(m.Text))
}

func (r *REPL) command(ctx context.Context, line string) (bool, error) {
	name := strings.Fields(line)[0]
	switch name {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(r.Out, helpText)
	case "/clear":
		if r.Session.Clear(ctx, r.confirm) {
			last, _ := r.Session.LastAnswer()
			r.printMessage(last)
		}
	case "/copy":
		last, ok := r.Session.LastAnswer()
		if !ok {
			return false, chat.ErrMessageNotFound
		}
		if err := r.Session.Copy(last.ID); err != nil {
			return false, err
		}
		fmt.Fprintln(r.Out, "Nusxalandi.")
	case "/speak":
		last, ok := r.Session.LastAnswer()
		if !ok {
			return false, chat.ErrMessageNotFound
		}
		state, err := r.Session.Speak(ctx, last.ID)
		if err != nil {
			return false, err
		}
		if state == chat.SpeakerSpeaking {
			fmt.Fprintln(r.Out, "Tinglanmoqda... (/speak to'xtatadi)")
		} else {
			fmt.Fprintln(r.Out, "To'xtatildi.")
		}
	case "/voice":
		return false, r.voice(ctx)
	default:
		return false, fmt.Errorf("noma'lum buyruq %s (/help)", name)
	}
	return false, nil
}

// voice listens for one utterance; the recognized text is sent like typed input.
func (r *REPL) voice(ctx context.Context) error {
	if r.Voice == nil {
		return errors.New("ovozli kiritish sozlanmagan (--audio)")
	}
	before := len(r.Session.Messages())
	if err := r.Voice.Toggle(ctx); err != nil {
		return err
	}
	fmt.Fprintln(r.Out, "Tinglanmoqda...")
	<-r.Voice.Done()

	msgs := r.Session.Messages()
	for _, m := range msgs[min(before, len(msgs)):] {
		if m.Role == chat.RoleUser {
			fmt.Fprintln(r.Out, prompt+m.Text)
			continue
		}
		r.printMessage(m)
	}
	return nil
}

func (r *REPL) confirm() bool {
	fmt.Fprint(r.Out, confirmClear)
	if !r.scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(r.scanner.Text()))
	return answer == "y" || answer == "yes" || answer == "ha"
}
