package cache

import (
	"context"
	"time"
)

// NoOpCache misses on every lookup. Used when CACHE_PROVIDER=none or Redis is down.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache { return &NoOpCache{} }

func (*NoOpCache) Lookup(context.Context, string) (Entry, bool, error) {
	return Entry{}, false, nil
}

func (*NoOpCache) Store(context.Context, string, Entry, time.Duration) error { return nil }

func (*NoOpCache) Close() error { return nil }
