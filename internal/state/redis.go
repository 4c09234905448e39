package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps conversation state in Redis with a TTL, for running
// several bot replicas against one shared store.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(userID int64) string {
	return fmt.Sprintf("conversation:%d", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (Conversation, error) {
	value, err := s.client.Get(ctx, key(userID)).Int()
	if errors.Is(err, redis.Nil) {
		return Idle, nil
	}
	if err != nil {
		return Idle, err
	}
	return Conversation(value), nil
}

func (s *RedisStore) Set(ctx context.Context, userID int64, c Conversation) error {
	return s.client.Set(ctx, key(userID), int(c), s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, key(userID)).Err()
}
