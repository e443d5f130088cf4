package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpCacheNeverHits(t *testing.T) {
	c := NewNoOpCache()
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, "k", Entry{Answer: "Salom!"}, time.Hour))
	_, ok, err := c.Lookup(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"deterministic", Key("system", "Salom"), Key("system", "Salom"), true},
		{"system instruction is part of the key", Key("system", "Salom"), Key("other", "Salom"), false},
		{"separator between parts", Key("ab", "c"), Key("a", "bc"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, tt.a == tt.b)
		})
	}
	assert.Len(t, Key("", ""), 64)
}
