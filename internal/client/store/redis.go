package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// opTimeout bounds every redis call; the store interface is synchronous and
// must never hang the caller.
const opTimeout = 3 * time.Second

// RedisStore keeps each collection under its own redis key. Redis SET is a
// full-value replacement, which preserves the atomic snapshot semantics of
// the file store. Intended for shared-cache deployments (lab kiosks) where
// several clients on one host reuse the same warm cache.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// OpenRedis connects to the redis instance at addr and verifies it with a
// ping. prefix namespaces this client's keys within the instance.
func OpenRedis(addr, prefix string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisStore{rdb: rdb, prefix: prefix}, nil
}

// Get returns the blob stored under key.
func (s *RedisStore) Get(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

// Set replaces the blob under key.
func (s *RedisStore) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying redis connection.
func (s *RedisStore) Close() error { return s.rdb.Close() }
