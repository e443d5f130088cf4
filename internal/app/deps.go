package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/openai/openai-go/v3"
	"github.com/prometheus/client_golang/prometheus"

	"nexus-chat/internal/cache"
	"nexus-chat/internal/chat"
	"nexus-chat/internal/config"
	"nexus-chat/internal/events"
	"nexus-chat/internal/llm"
	"nexus-chat/internal/logger"
	"nexus-chat/internal/metrics"
	"nexus-chat/internal/retry"
	"nexus-chat/internal/speech"
)

// Deps bundles common runtime dependencies.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	LLM      llm.Generator
	Cache    cache.Cache
	Events   events.Bus
	Speaker  *chat.Speaker
	Session  *chat.Session

	closers []func() error
}

// Build loads env, config, and shared components, logging to stdout.
func Build() (Deps, error) {
	return BuildWithLogOutput(os.Stdout)
}

// BuildWithLogOutput is Build with logs written to w.
func BuildWithLogOutput(w io.Writer) (Deps, error) {
	// A .env file is optional: the hosting environment usually supplies the credentials.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.NewWithWriter(w, cfg.LogLevel)
	return BuildFromConfig(cfg, log)
}

// BuildFromConfig wires components from an already loaded config.
func BuildFromConfig(cfg config.Config, log *slog.Logger) (Deps, error) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	provider, err := buildProvider(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	gen := llm.NewRetryingClient(provider, cfg.SystemPrompt,
		llm.WithSchedule(retry.Schedule(cfg.RetryMax, cfg.RetryBase)),
		llm.WithLogger(log),
		llm.WithMetrics(m),
	)

	deps := Deps{
		Config:   cfg,
		Log:      log,
		Registry: reg,
		Metrics:  m,
		LLM:      gen,
	}

	deps.Cache = buildCache(cfg, log)
	deps.closers = append(deps.closers, deps.Cache.Close)

	bus, closeBus, err := buildEvents(cfg, log)
	if err != nil {
		_ = deps.Close()
		return Deps{}, fmt.Errorf("failed to initialize events: %w", err)
	}
	deps.Events = bus
	if closeBus != nil {
		deps.closers = append(deps.closers, closeBus)
	}

	if synth := speech.NewCommandSynthesizer(cfg.SynthCommand); synth != nil {
		deps.Speaker = chat.NewSpeaker(synth, cfg.VoiceLang, log)
	}

	opts := []chat.SessionOption{
		chat.WithLogger(log),
		chat.WithMetrics(m),
		chat.WithCache(deps.Cache, time.Duration(cfg.CacheTTL)*time.Second, cfg.SystemPrompt),
		chat.WithEvents(bus),
	}
	if deps.Speaker != nil {
		opts = append(opts, chat.WithSpeaker(deps.Speaker))
	}
	deps.Session = chat.NewSession(gen, opts...)
	return deps, nil
}

// VoiceInput builds speech recognition feeding the session, reading audio from source.
func (d Deps) VoiceInput(source speech.AudioSource) *chat.VoiceInput {
	rec := speech.NewGoogleRecognizer(source, d.Config.SpeechURL, d.Config.SpeechKey, d.Config.VoiceLang)
	return chat.NewSessionVoiceInput(rec, d.Session)
}

// Close releases cache and event connections.
func (d Deps) Close() error {
	var errs []error
	for _, c := range d.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildProvider(cfg config.Config, log *slog.Logger) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
		client, err := llm.NewGeminiClient(cfg.GeminiKey, cfg.GeminiBaseURL, cfg.LLMModel, cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		log.Info("using Gemini LLM client", "model", client.Model())
		return client, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, openai.ChatModel(cfg.LLMModel), cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI LLM client", "model", client.Model())
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: gemini, openai)", cfg.LLMProvider)
	}
}

// buildCache falls back to the no-op cache when Redis is unreachable.
func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable, answer cache disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNoOpCache()
		}
		log.Info("using Redis answer cache", "addr", cfg.RedisAddr)
		return c
	case "none", "":
		return cache.NewNoOpCache()
	default:
		log.Warn("unknown CACHE_PROVIDER, answer cache disabled", "provider", cfg.CacheProvider)
		return cache.NewNoOpCache()
	}
}

func buildEvents(cfg config.Config, log *slog.Logger) (events.Bus, func() error, error) {
	switch cfg.EventsProvider {
	case "nats":
		if cfg.QueueURL == "" {
			return nil, nil, fmt.Errorf("QUEUE_URL is required when EVENTS_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.QueueURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS transcript events")
		return events.NewNATS(log, nc), func() error { return nc.Drain() }, nil
	case "none", "":
		return events.NoOp{}, nil, nil
	default:
		return nil, nil, fmt.Errorf("invalid EVENTS_PROVIDER: %s (valid options: none, nats)", cfg.EventsProvider)
	}
}
