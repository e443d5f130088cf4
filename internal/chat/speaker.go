package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"nexus-chat/internal/chunker"
)

type SpeakerState int

const (
	SpeakerIdle SpeakerState = iota
	SpeakerSpeaking
)

func (s SpeakerState) String() string {
	switch s {
	case SpeakerSpeaking:
		return "speaking"
	default:
		return "idle"
	}
}

// SpeakerTrigger names an event of the playback lifecycle.
type SpeakerTrigger string

const (
	SpeakStart  SpeakerTrigger = "start"
	SpeakEnd    SpeakerTrigger = "end"
	SpeakCancel SpeakerTrigger = "cancel"
)

var speakerTransitions = map[SpeakerState]map[SpeakerTrigger]SpeakerState{
	SpeakerIdle: {
		SpeakStart: SpeakerSpeaking,
	},
	SpeakerSpeaking: {
		SpeakEnd:    SpeakerIdle,
		SpeakCancel: SpeakerIdle,
	},
}

// NextSpeakerState applies trigger to from.
func NextSpeakerState(from SpeakerState, trigger SpeakerTrigger) (SpeakerState, error) {
	to, ok := speakerTransitions[from][trigger]
	if !ok {
		return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, trigger, from)
	}
	return to, nil
}

// Synthesizer speaks text aloud and blocks until playback ends or ctx is cancelled.
type Synthesizer interface {
	Speak(ctx context.Context, text, lang string) error
}

// Speaker drives text-to-speech playback: Idle -> Speaking -> Idle.
type Speaker struct {
	synth Synthesizer
	lang  string
	log   *slog.Logger

	mu     sync.Mutex
	state  SpeakerState
	run    int
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSpeaker(synth Synthesizer, lang string, log *slog.Logger) *Speaker {
	if log == nil {
		log = slog.Default()
	}
	done := make(chan struct{})
	close(done)
	return &Speaker{synth: synth, lang: lang, log: log, done: done}
}

func (s *Speaker) State() SpeakerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed when the current playback has finished.
func (s *Speaker) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Toggle cancels playback in progress; otherwise it starts speaking text.
func (s *Speaker) Toggle(ctx context.Context, text string) (SpeakerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SpeakerSpeaking {
		if err := s.fireLocked(SpeakCancel); err != nil {
			return s.state, err
		}
		if s.cancel != nil {
			s.cancel()
		}
		return s.state, nil
	}

	if err := s.fireLocked(SpeakStart); err != nil {
		return s.state, err
	}
	s.run++
	playCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.play(playCtx, text, s.run, s.done)
	return s.state, nil
}

func (s *Speaker) play(ctx context.Context, text string, run int, done chan struct{}) {
	defer close(done)
	for _, piece := range chunker.Utterances(text, chunker.DefaultMaxWords) {
		err := s.synth.Speak(ctx, piece, s.lang)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.log.Warn("speech playback failed", "err", err)
			}
			break
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if run != s.run || s.state != SpeakerSpeaking {
		return
	}
	_ = s.fireLocked(SpeakEnd)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Speaker) fireLocked(trigger SpeakerTrigger) error {
	next, err := NextSpeakerState(s.state, trigger)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}
