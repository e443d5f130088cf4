package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// DefaultSystemPrompt is the assistant persona sent as the system instruction.
const DefaultSystemPrompt = "Siz Nexus AI ismli aqlli, do'stona va yordam berishga intiluvchi sun'iy intellektsiz. Har qanday savolga o'zbek tilida batafsil va aniq javob bering. Agar foydalanuvchi kod so'rasa, uni markdown formatida taqdim eting."

// Config holds runtime configuration.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LLM
	LLMProvider    string        `env:"LLM_PROVIDER" envDefault:"gemini"` // "gemini" or "openai" (any OpenAI-compatible endpoint)
	LLMModel       string        `env:"LLM_MODEL"`                        // empty: the provider's own default
	GeminiKey      string        `env:"GEMINI_API_KEY"`
	GeminiBaseURL  string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	OpenAIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL"`
	SystemPrompt   string        `env:"SYSTEM_PROMPT"`
	RequestTimeout time.Duration `env:"LLM_REQUEST_TIMEOUT" envDefault:"60s"`

	// Retry: RetryMax retries after the first attempt, doubling from RetryBase.
	RetryMax  int           `env:"RETRY_MAX" envDefault:"5"`
	RetryBase time.Duration `env:"RETRY_BASE" envDefault:"1s"`

	// Cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none"` // "none" or "redis"
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"3600"` // seconds

	// Events
	EventsProvider string `env:"EVENTS_PROVIDER" envDefault:"none"` // "none" or "nats"
	QueueURL       string `env:"QUEUE_URL"`

	// Voice & speech
	VoiceLang     string `env:"VOICE_LANG" envDefault:"uz-UZ"`
	SpeechKey     string `env:"SPEECH_API_KEY"`
	SpeechURL     string `env:"SPEECH_URL" envDefault:"http://www.google.com/speech-api/v2/recognize"`
	SynthCommand  string `env:"SYNTH_COMMAND" envDefault:"espeak-ng"`
	MetricsEnable bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// MaxRetries caps RETRY_MAX; 10 retries from 1s already wait about 17 minutes.
const MaxRetries = 10

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	switch {
	case cfg.RetryMax < 0:
		slog.Warn("RETRY_MAX below zero; retries disabled", "value", cfg.RetryMax)
		cfg.RetryMax = 0
	case cfg.RetryMax > MaxRetries:
		slog.Warn("RETRY_MAX too large; capped", "value", cfg.RetryMax, "max", MaxRetries)
		cfg.RetryMax = MaxRetries
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	return cfg
}
