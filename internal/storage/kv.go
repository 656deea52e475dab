package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned by Get when the key does not exist. Callers
// distinguish "no snapshot yet" from a real I/O failure with this sentinel.
var ErrKeyNotFound = errors.New("storage: key not found")

// KV is the persistent key-value primitive the snapshot store writes through.
// Implementations must be safe for concurrent use.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// RedisKV implements KV over a Redis client. Values are stored without TTL;
// snapshots survive until explicitly replaced or deleted.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV creates a Redis-backed KV store.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (s *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisKV) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisKV) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
