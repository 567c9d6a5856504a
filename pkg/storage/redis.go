package storage

import (
	"context"
	"errors"
	"time"
)

// RedisClient defines the Redis operations the store needs.
// This interface is compatible with github.com/redis/go-redis/v9, so a
// *redis.Client can be passed through a thin adapter without statekit taking
// a direct dependency on the driver.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) RedisStatusCmd
	Get(ctx context.Context, key string) RedisStringCmd
	Del(ctx context.Context, keys ...string) RedisIntCmd
	Close() error
}

// RedisStatusCmd represents a Redis status command result.
type RedisStatusCmd interface {
	Err() error
}

// RedisStringCmd represents a Redis string command result.
type RedisStringCmd interface {
	Bytes() ([]byte, error)
	Err() error
}

// RedisIntCmd represents a Redis int command result.
type RedisIntCmd interface {
	Err() error
}

// ErrRedisNil is returned when a key doesn't exist in Redis.
// This should match redis.Nil from go-redis.
var ErrRedisNil = errors.New("redis: nil")

// RedisStore is a Redis-backed store, suitable for consoles whose state
// should follow the user across hosts.
type RedisStore struct {
	client RedisClient
	prefix string
	closed bool
}

// RedisStoreOption configures RedisStore behavior.
type RedisStoreOption func(*redisStoreConfig)

type redisStoreConfig struct {
	prefix string
}

// WithRedisPrefix sets the key prefix. Default: "statekit:".
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(c *redisStoreConfig) {
		c.prefix = prefix
	}
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client RedisClient, opts ...RedisStoreOption) *RedisStore {
	cfg := &redisStoreConfig{
		prefix: "statekit:",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &RedisStore{
		client: client,
		prefix: cfg.prefix,
	}
}

// key returns the prefixed Redis key.
func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

// Get retrieves the value for a key.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if r.closed {
		return nil, ErrStoreClosed{}
	}

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err.Error() == ErrRedisNil.Error() {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Set stores a value with no expiration. Store entries outlive sessions;
// they are removed explicitly, not aged out.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if r.closed {
		return ErrStoreClosed{}
	}
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

// Remove deletes a key.
func (r *RedisStore) Remove(ctx context.Context, key string) error {
	if r.closed {
		return ErrStoreClosed{}
	}
	return r.client.Del(ctx, r.key(key)).Err()
}

// Close marks the store as closed. It does not close the underlying Redis
// client, which may be shared with other components.
func (r *RedisStore) Close() error {
	r.closed = true
	return nil
}

// Prefix returns the current key prefix. For testing/debugging.
func (r *RedisStore) Prefix() string {
	return r.prefix
}
