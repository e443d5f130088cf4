package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "nexus:answer:"
	fieldAnswer   = "answer"
	fieldStoredAt = "stored_at"
)

// RedisCache keeps each entry in a hash with a TTL.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to addr and pings it.
func NewRedisCache(addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return NewRedisCacheFromClient(client), nil
}

func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Lookup(ctx context.Context, key string) (Entry, bool, error) {
	fields, err := c.client.HGetAll(ctx, keyPrefix+key).Result()
	if err != nil {
		return Entry{}, false, err
	}
	answer, ok := fields[fieldAnswer]
	if !ok {
		return Entry{}, false, nil
	}
	e := Entry{Answer: answer}
	if ts, err := strconv.ParseInt(fields[fieldStoredAt], 10, 64); err == nil {
		e.StoredAt = time.Unix(0, ts)
	}
	return e, true, nil
}

// Store writes the hash and its expiry in one transaction. A non-positive ttl keeps the entry forever.
func (c *RedisCache) Store(ctx context.Context, key string, e Entry, ttl time.Duration) error {
	k := keyPrefix + key
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k, fieldAnswer, e.Answer, fieldStoredAt, e.StoredAt.UnixNano())
		if ttl > 0 {
			pipe.Expire(ctx, k, ttl)
		}
		return nil
	})
	return err
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
