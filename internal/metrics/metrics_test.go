package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Attempt(errors.New("503"))
	m.Attempt(errors.New("503"))
	m.Attempt(nil)
	m.Retry(time.Second)
	m.Retry(2 * time.Second)
	m.TerminalFailure()
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	if got := testutil.ToFloat64(m.attempts.WithLabelValues("failure")); got != 2 {
		t.Errorf("failure attempts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.attempts.WithLabelValues("success")); got != 1 {
		t.Errorf("success attempts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.retries); got != 2 {
		t.Errorf("retries = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.terminal); got != 1 {
		t.Errorf("terminal = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cacheLookup.WithLabelValues("miss")); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Attempt(nil)
	m.Retry(time.Second)
	m.TerminalFailure()
	m.CacheLookup(true)
}
