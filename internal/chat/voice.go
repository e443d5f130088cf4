package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// ErrInvalidTransition is returned for a trigger the current state does not accept.
var ErrInvalidTransition = errors.New("invalid state transition")

type VoiceState int

const (
	VoiceIdle VoiceState = iota
	VoiceListening
)

func (s VoiceState) String() string {
	switch s {
	case VoiceListening:
		return "listening"
	default:
		return "idle"
	}
}

// VoiceTrigger names an event of the recognition lifecycle.
type VoiceTrigger string

const (
	VoiceStart  VoiceTrigger = "start"
	VoiceResult VoiceTrigger = "result"
	VoiceError  VoiceTrigger = "error"
	VoiceEnd    VoiceTrigger = "end"
	VoiceStop   VoiceTrigger = "stop"
)

var voiceTransitions = map[VoiceState]map[VoiceTrigger]VoiceState{
	VoiceIdle: {
		VoiceStart: VoiceListening,
	},
	VoiceListening: {
		VoiceResult: VoiceListening,
		VoiceError:  VoiceIdle,
		VoiceEnd:    VoiceIdle,
		VoiceStop:   VoiceIdle,
	},
}

// NextVoiceState applies trigger to from.
func NextVoiceState(from VoiceState, trigger VoiceTrigger) (VoiceState, error) {
	to, ok := voiceTransitions[from][trigger]
	if !ok {
		return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, trigger, from)
	}
	return to, nil
}

// Recognizer turns one spoken utterance into text.
type Recognizer interface {
	Recognize(ctx context.Context) (string, error)
}

// VoiceInput drives speech recognition: Idle -> Listening -> Idle. A recognized
// transcript is handed to submit once listening has ended.
type VoiceInput struct {
	rec    Recognizer
	submit func(ctx context.Context, text string)
	log    *slog.Logger

	mu     sync.Mutex
	state  VoiceState
	run    int
	cancel context.CancelFunc
	done   chan struct{}
}

func NewVoiceInput(rec Recognizer, submit func(ctx context.Context, text string), log *slog.Logger) *VoiceInput {
	if log == nil {
		log = slog.Default()
	}
	done := make(chan struct{})
	close(done)
	return &VoiceInput{rec: rec, submit: submit, log: log, done: done}
}

// NewSessionVoiceInput submits recognized speech through s.Send.
func NewSessionVoiceInput(rec Recognizer, s *Session) *VoiceInput {
	return NewVoiceInput(rec, func(ctx context.Context, text string) {
		s.Send(ctx, text)
	}, s.log)
}

func (v *VoiceInput) State() VoiceState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Done is closed when the current listening run, including its submission, has finished.
func (v *VoiceInput) Done() <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.done
}

// Toggle stops listening if active, otherwise starts.
func (v *VoiceInput) Toggle(ctx context.Context) error {
	if v.State() == VoiceListening {
		return v.Stop()
	}
	return v.Start(ctx)
}

// Start begins one recognition run.
func (v *VoiceInput) Start(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.fireLocked(VoiceStart); err != nil {
		return err
	}
	v.run++
	listenCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.done = make(chan struct{})
	go v.listen(ctx, listenCtx, v.run, v.done)
	return nil
}

// Stop aborts the current run; no transcript is submitted for it.
func (v *VoiceInput) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.fireLocked(VoiceStop); err != nil {
		return err
	}
	if v.cancel != nil {
		v.cancel()
	}
	return nil
}

func (v *VoiceInput) listen(parent, ctx context.Context, run int, done chan struct{}) {
	defer close(done)
	text, err := v.rec.Recognize(ctx)
	if err != nil {
		if v.fire(run, VoiceError) {
			v.log.Warn("speech recognition failed", "err", err)
		}
		return
	}
	if !v.fire(run, VoiceResult) {
		return
	}
	v.fire(run, VoiceEnd)
	if text = strings.TrimSpace(text); text != "" && v.submit != nil {
		v.submit(parent, text)
	}
}

// fire applies trigger only if run is still the active run.
func (v *VoiceInput) fire(run int, trigger VoiceTrigger) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if run != v.run {
		return false
	}
	if err := v.fireLocked(trigger); err != nil {
		return false
	}
	if v.state == VoiceIdle && v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	return true
}

func (v *VoiceInput) fireLocked(trigger VoiceTrigger) error {
	next, err := NextVoiceState(v.state, trigger)
	if err != nil {
		return err
	}
	v.state = next
	return nil
}
