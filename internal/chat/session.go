package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"nexus-chat/internal/cache"
	"nexus-chat/internal/clipboard"
	"nexus-chat/internal/events"
	"nexus-chat/internal/llm"
	"nexus-chat/internal/metrics"
)

const (
	// FallbackMessage is shown when generation fails after every retry.
	FallbackMessage = "Xatolik yuz berdi. Iltimos, qaytadan urinib ko'ring."
	// ClearedGreeting is the single message left after a confirmed clear.
	ClearedGreeting = "Suhbat tozalandi. Sizga qanday yordam berishim mumkin?"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrNoSpeaker       = errors.New("speech playback not configured")
)

// Session holds the transcript, typing indicator and collaborators of one chat.
type Session struct {
	gen        llm.Generator
	transcript Transcript
	pending    atomic.Int32
	log        *slog.Logger

	cache    cache.Cache
	cacheTTL time.Duration
	system   string

	bus     events.Bus
	metrics *metrics.Metrics
	clip    clipboard.Writer
	speaker *Speaker
}

type SessionOption func(*Session)

// WithCache enables the answer cache. systemInstruction is part of the cache key.
func WithCache(c cache.Cache, ttl time.Duration, systemInstruction string) SessionOption {
	return func(s *Session) {
		s.cache = c
		s.cacheTTL = ttl
		s.system = systemInstruction
	}
}

func WithEvents(bus events.Bus) SessionOption {
	return func(s *Session) { s.bus = bus }
}

func WithLogger(log *slog.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

func WithMetrics(m *metrics.Metrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

func WithClipboard(w clipboard.Writer) SessionOption {
	return func(s *Session) { s.clip = w }
}

func WithSpeaker(sp *Speaker) SessionOption {
	return func(s *Session) { s.speaker = sp }
}

// NewSession starts with an empty transcript.
func NewSession(gen llm.Generator, opts ...SessionOption) *Session {
	s := &Session{
		gen:   gen,
		log:   slog.Default(),
		cache: cache.NewNoOpCache(),
		bus:   events.NoOp{},
		clip:  clipboard.System{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send submits user input. Whitespace-only input is ignored and reports false.
// A terminal generation failure is answered with FallbackMessage; no error is returned.
// Concurrent calls are independent and their answers may be appended out of order.
func (s *Session) Send(ctx context.Context, input string) (Message, bool) {
	text := strings.TrimSpace(input)
	if text == "" {
		return Message{}, false
	}
	s.append(ctx, RoleUser, text)

	s.pending.Add(1)
	answer, err := s.generate(ctx, text)
	s.pending.Add(-1)
	if err != nil {
		s.log.Error("generation failed", "err", err)
		answer = FallbackMessage
	}
	return s.append(ctx, RoleAssistant, answer), true
}

func (s *Session) generate(ctx context.Context, prompt string) (string, error) {
	key := cache.Key(s.system, prompt)
	e, hit, err := s.cache.Lookup(ctx, key)
	if err != nil {
		s.log.Warn("cache lookup failed", "err", err)
	}
	s.metrics.CacheLookup(hit)
	if hit {
		return e.Answer, nil
	}

	answer, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if answer != llm.AnswerNotFound {
		if err := s.cache.Store(ctx, key, cache.Entry{Answer: answer, StoredAt: time.Now()}, s.cacheTTL); err != nil {
			s.log.Warn("failed to cache answer", "err", err)
		}
	}
	return answer, nil
}

func (s *Session) append(ctx context.Context, role Role, text string) Message {
	m := newMessage(role, text)
	s.transcript.Append(m)
	s.publishAppended(ctx, m)
	return m
}

func (s *Session) publishAppended(ctx context.Context, m Message) {
	s.publish(ctx, events.Event{
		Type:      events.TypeMessageAppended,
		MessageID: m.ID,
		Role:      string(m.Role),
		Text:      m.Text,
		At:        m.CreatedAt,
	})
}

func (s *Session) publish(ctx context.Context, ev events.Event) {
	ev.ID = uuid.New()
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	if err := events.PublishWithRetry(ctx, s.bus, ev, 3, 200*time.Millisecond); err != nil {
		s.log.Warn("failed to publish event", "type", ev.Type, "err", err)
	}
}

// Clear resets the transcript to ClearedGreeting if confirm approves. A nil confirm
// counts as approval.
func (s *Session) Clear(ctx context.Context, confirm func() bool) bool {
	if confirm != nil && !confirm() {
		return false
	}
	greeting := newMessage(RoleAssistant, ClearedGreeting)
	s.transcript.Reset(greeting)
	s.publish(ctx, events.Event{Type: events.TypeTranscriptCleared})
	s.publishAppended(ctx, greeting)
	return true
}

func (s *Session) Messages() []Message {
	return s.transcript.Messages()
}

func (s *Session) Message(id uuid.UUID) (Message, bool) {
	return s.transcript.Find(id)
}

// LastAnswer is the most recent assistant message.
func (s *Session) LastAnswer() (Message, bool) {
	return s.transcript.LastFrom(RoleAssistant)
}

// Typing reports whether any Send is waiting on the generation endpoint.
func (s *Session) Typing() bool {
	return s.pending.Load() > 0
}

// Copy puts a message's text on the clipboard.
func (s *Session) Copy(id uuid.UUID) error {
	m, ok := s.transcript.Find(id)
	if !ok {
		return ErrMessageNotFound
	}
	return s.clip.WriteAll(m.Text)
}

// Speak toggles playback of a message: it cancels playback in progress, otherwise
// starts speaking the message. It returns the resulting speaker state.
func (s *Session) Speak(ctx context.Context, id uuid.UUID) (SpeakerState, error) {
	if s.speaker == nil {
		return SpeakerIdle, ErrNoSpeaker
	}
	m, ok := s.transcript.Find(id)
	if !ok {
		return s.speaker.State(), ErrMessageNotFound
	}
	return s.speaker.Toggle(ctx, m.Text)
}
