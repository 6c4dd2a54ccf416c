package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis stores blobs in a redis instance under a key prefix, for
// deployments where state should survive process restarts on another host.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a redis-backed store.
func NewRedis(opt *redis.Options, prefix string) *Redis {
	return &Redis{client: redis.NewClient(opt), prefix: prefix}
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	// No expiry: this is durable application state, not a cache.
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

// Close releases the underlying redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
