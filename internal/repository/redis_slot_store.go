package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlotStore keeps slots as prefixed redis string keys.
type RedisSlotStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSlotStore builds a store; ttl <= 0 stores keys without expiry.
func NewRedisSlotStore(client *redis.Client, prefix string, ttl time.Duration) *RedisSlotStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisSlotStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisSlotStore) key(slot string) string {
	return s.prefix + slot
}

func (s *RedisSlotStore) Load(ctx context.Context, slot string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(slot)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisSlotStore) Save(ctx context.Context, slot, value string) error {
	return s.client.Set(ctx, s.key(slot), value, s.ttl).Err()
}

func (s *RedisSlotStore) Delete(ctx context.Context, slot string) error {
	return s.client.Del(ctx, s.key(slot)).Err()
}
