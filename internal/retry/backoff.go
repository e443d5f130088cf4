package retry

import (
	"context"
	"math"
	"time"
)

// ExponentialBackoff returns delay based on attempt number.
// The delay doubles with each attempt: base * 2^attempt, saturating at the largest Duration.
func ExponentialBackoff(attempt int, base time.Duration) time.Duration {
	if attempt <= 0 || base <= 0 {
		return base
	}
	if attempt >= 63 || base > time.Duration(math.MaxInt64)>>attempt {
		return time.Duration(math.MaxInt64)
	}
	return base << attempt
}

// Schedule returns n fixed delays doubling from base: base, 2*base, 4*base, ...
func Schedule(n int, base time.Duration) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := make([]time.Duration, n)
	for i := range delays {
		delays[i] = ExponentialBackoff(i, base)
	}
	return delays
}

// DefaultSchedule is 1s, 2s, 4s, 8s, 16s.
var DefaultSchedule = Schedule(5, time.Second)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real-time Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Policy is a fixed, unjittered retry schedule. Each entry of Delays is one retry,
// so a call is attempted at most len(Delays)+1 times.
type Policy struct {
	Delays  []time.Duration
	Sleep   Sleeper
	OnRetry func(retry int, delay time.Duration, err error)
}

// MaxRetries is the number of retries after the first attempt.
func (p Policy) MaxRetries() int {
	return len(p.Delays)
}

// Do calls fn and, while it fails and retries remain, waits Delays[retry] and calls it again.
// fn receives the zero-based attempt number. The last error is returned once the budget is spent.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	for retry := 0; ; retry++ {
		err := fn(ctx, retry)
		if err == nil {
			return nil
		}
		if retry >= len(p.Delays) {
			return err
		}
		delay := p.Delays[retry]
		if p.OnRetry != nil {
			p.OnRetry(retry, delay, err)
		}
		if serr := sleep(ctx, delay); serr != nil {
			return serr
		}
	}
}
