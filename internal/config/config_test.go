package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "LLM_PROVIDER", "LLM_MODEL", "SYSTEM_PROMPT", "RETRY_MAX",
		"RETRY_BASE", "CACHE_PROVIDER", "EVENTS_PROVIDER", "VOICE_LANG", "LLM_REQUEST_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LLMProvider", cfg.LLMProvider, "gemini"},
		{"LLMModel", cfg.LLMModel, ""},
		{"SystemPrompt", cfg.SystemPrompt, DefaultSystemPrompt},
		{"CacheProvider", cfg.CacheProvider, "none"},
		{"EventsProvider", cfg.EventsProvider, "none"},
		{"VoiceLang", cfg.VoiceLang, "uz-UZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadRetryDefaults(t *testing.T) {
	t.Setenv("RETRY_MAX", "")
	t.Setenv("RETRY_BASE", "")

	cfg := Load()

	// Empty values fall back to envDefault.
	if cfg.RetryMax != 5 {
		t.Errorf("expected RetryMax 5, got %d", cfg.RetryMax)
	}
	if cfg.RetryBase != time.Second {
		t.Errorf("expected RetryBase 1s, got %v", cfg.RetryBase)
	}
}

func TestLoadClampsRetryMax(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"40", MaxRetries},
		{"-3", 0},
		{"7", 7},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("RETRY_MAX", tt.value)
			if got := Load().RetryMax; got != tt.want {
				t.Errorf("RetryMax = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RETRY_MAX", "3")
	t.Setenv("RETRY_BASE", "250ms")
	t.Setenv("LLM_REQUEST_TIMEOUT", "5s")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.RetryMax != 3 {
		t.Errorf("expected RetryMax 3, got %d", cfg.RetryMax)
	}
	if cfg.RetryBase != 250*time.Millisecond {
		t.Errorf("expected RetryBase 250ms, got %v", cfg.RetryBase)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("expected RequestTimeout 5s, got %v", cfg.RequestTimeout)
	}
}

func TestLoadProviderOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("CACHE_PROVIDER", "redis")
	t.Setenv("SYSTEM_PROMPT", "be brief")

	cfg := Load()

	if cfg.LLMProvider != "openai" {
		t.Errorf("expected LLM provider 'openai', got %s", cfg.LLMProvider)
	}
	if cfg.CacheProvider != "redis" {
		t.Errorf("expected cache provider 'redis', got %s", cfg.CacheProvider)
	}
	if cfg.SystemPrompt != "be brief" {
		t.Errorf("expected system prompt override, got %q", cfg.SystemPrompt)
	}
}
