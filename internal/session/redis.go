package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "fitnesshub:token:"

// RedisTokenStore persists session tokens in Redis, letting key TTLs expire
// abandoned sessions.
type RedisTokenStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisTokenStore creates a Redis-backed token store. ttl <= 0 stores keys
// without expiry.
func NewRedisTokenStore(client redis.UniversalClient, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
		prefix: defaultRedisPrefix,
		ttl:    ttl,
	}
}

// WithPrefix returns a copy of the store using a custom key prefix
func (s *RedisTokenStore) WithPrefix(prefix string) *RedisTokenStore {
	clone := *s
	clone.prefix = prefix
	return &clone
}

func (s *RedisTokenStore) Load(ctx context.Context, sid string) (string, error) {
	if sid == "" {
		return "", ErrTokenNotFound
	}
	token, err := s.client.Get(ctx, s.prefix+sid).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return token, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, sid, token string) error {
	if sid == "" {
		return errors.New("session ID cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+sid, token, max(s.ttl, 0)).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.prefix+sid).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
