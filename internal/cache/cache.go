package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache remembers answers for repeated prompts.
type Cache interface {
	// Lookup reports false on a miss.
	Lookup(ctx context.Context, key string) (Entry, bool, error)
	Store(ctx context.Context, key string, e Entry, ttl time.Duration) error
	Close() error
}

// Entry is one remembered answer.
type Entry struct {
	Answer   string
	StoredAt time.Time
}

// Key hashes the system instruction and prompt; a zero byte separates them.
func Key(systemInstruction, prompt string) string {
	h := sha256.New()
	h.Write([]byte(systemInstruction))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
