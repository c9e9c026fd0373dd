package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		baseTTL:   ttl,
		maxJitter: 5,
	}
}

type RedisStore struct {
	client    *redis.Client
	baseTTL   time.Duration
	maxJitter int // minutes
}

func (r *RedisStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, redisKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

// Set overwrites the value and restarts its expiry.
func (r *RedisStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	ttl := r.baseTTL
	if r.maxJitter > 0 {
		ttl += time.Duration(rand.Intn(r.maxJitter)) * time.Minute
	}
	if err := r.client.Set(ctx, redisKey(sessionID, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func redisKey(sessionID, key string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, key)
}
