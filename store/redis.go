package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StillFM/config"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces StillFM state so a shared Redis instance can host
// other applications without collisions.
const keyPrefix = "stillfm:"

// RedisStore persists client state in Redis. Values are written without
// expiry; they are removed only by explicit Remove calls.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Check verifies basic read/write operations against the connected Redis.
func (s *RedisStore) Check(ctx context.Context) error {
	const key = "healthcheck"

	if err := s.Set(ctx, key, "ok"); err != nil {
		return err
	}
	value, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if value != "ok" {
		return fmt.Errorf("unexpected value from Redis: got %s", value)
	}
	return s.Remove(ctx, key)
}
