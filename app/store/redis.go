package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ HashStore = (*RedisStore)(nil)

// RedisStore keeps seen hashes in Redis so multiple pipeline processes share
// one deduplication horizon. Entries expire after the configured TTL; an
// event re-discovered after that window counts as new again.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Debug("Connected to Redis", "addr", addr, "ttl", ttl)

	return &RedisStore{
		client: client,
		prefix: "event_hash:",
		ttl:    ttl,
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, hash string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+hash).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check hash %s: %w", hash, err)
	}
	return n > 0, nil
}

func (s *RedisStore) Put(ctx context.Context, hash string) error {
	if err := s.client.Set(ctx, s.prefix+hash, 1, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store hash %s: %w", hash, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
