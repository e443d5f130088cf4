package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"nexus-chat/internal/metrics"
	"nexus-chat/internal/retry"
)

// RetryingClient wraps a Provider with a fixed backoff schedule. Every Generate call
// gets its own budget: one initial call plus one call per schedule entry.
type RetryingClient struct {
	provider Provider
	system   string
	policy   retry.Policy
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// Option customises a RetryingClient.
type Option func(*RetryingClient)

// WithSchedule replaces the default 1s..16s schedule.
func WithSchedule(delays []time.Duration) Option {
	return func(c *RetryingClient) { c.policy.Delays = delays }
}

// WithSleeper replaces real-time waiting, mainly for tests.
func WithSleeper(s retry.Sleeper) Option {
	return func(c *RetryingClient) { c.policy.Sleep = s }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *RetryingClient) { c.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *RetryingClient) { c.metrics = m }
}

// NewRetryingClient builds a Generator sending systemInstruction with every prompt.
func NewRetryingClient(provider Provider, systemInstruction string, opts ...Option) *RetryingClient {
	c := &RetryingClient{
		provider: provider,
		system:   systemInstruction,
		policy:   retry.Policy{Delays: retry.DefaultSchedule},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.policy.OnRetry = func(n int, delay time.Duration, err error) {
		c.log.Warn("generation failed, retrying", "retry", n+1, "max_retries", c.policy.MaxRetries(), "delay", delay, "err", err)
		c.metrics.Retry(delay)
	}
	return c
}

// MaxRetries is the number of retries after the first call.
func (c *RetryingClient) MaxRetries() int {
	return c.policy.MaxRetries()
}

// Generate returns the answer for prompt, or an error wrapping ErrGenerationFailed once
// every retry has failed. A cancelled ctx ends the wait early with the context error.
func (c *RetryingClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := Payload{Prompt: prompt, SystemInstruction: c.system}

	var answer string
	err := retry.Do(ctx, c.policy, func(ctx context.Context, attempt int) error {
		text, err := c.provider.Generate(ctx, payload)
		c.metrics.Attempt(err)
		if err != nil {
			return err
		}
		answer = text
		return nil
	})
	if err == nil {
		return answer, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	c.metrics.TerminalFailure()
	c.log.Error("generation failed after retries", "retries", c.policy.MaxRetries(), "err", err)
	return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}
