package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records generation activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	attempts    *prometheus.CounterVec
	retries     prometheus.Counter
	backoff     prometheus.Histogram
	terminal    prometheus.Counter
	cacheLookup *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_generation_attempts_total",
				Help: "Generation endpoint calls by outcome",
			},
			[]string{"outcome"},
		),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_generation_retries_total",
			Help: "Retries scheduled after a failed generation call",
		}),
		backoff: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nexus_generation_backoff_seconds",
			Help:    "Backoff delays waited between generation calls",
			Buckets: []float64{1, 2, 4, 8, 16, 32},
		}),
		terminal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_generation_terminal_failures_total",
			Help: "Generate calls that exhausted their retry budget",
		}),
		cacheLookup: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_answer_cache_lookups_total",
				Help: "Answer cache lookups by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.attempts, m.retries, m.backoff, m.terminal, m.cacheLookup)
	return m
}

func (m *Metrics) Attempt(err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.attempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Retry(delay time.Duration) {
	if m == nil {
		return
	}
	m.retries.Inc()
	m.backoff.Observe(delay.Seconds())
}

func (m *Metrics) TerminalFailure() {
	if m == nil {
		return
	}
	m.terminal.Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookup.WithLabelValues(result).Inc()
}
