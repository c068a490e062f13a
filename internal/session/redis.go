package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rariteth/go-cart/internal/domain"
)

// DefaultTTL is how long a session-tier cart survives without activity.
const DefaultTTL = 72 * time.Hour

// RedisStore keeps session carts as JSON blobs in redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, key string) (domain.Collection, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items domain.Collection
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal session cart failed: %w", err)
	}
	return items, nil
}

func (r *RedisStore) Put(ctx context.Context, key string, items domain.Collection) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal session cart failed: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Forget(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
