package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore creates a Redis-backed credential store.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Set(ctx context.Context, externalID, token string) error {
	if externalID == "" || token == "" {
		return fmt.Errorf("credential: missing external_id or token")
	}

	if err := r.client.Set(ctx, Key(externalID), token, 0).Err(); err != nil {
		return fmt.Errorf("credential: set %s: %w", Key(externalID), err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, externalID string) (string, error) {
	val, err := r.client.Get(ctx, Key(externalID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("credential: get %s: %w", Key(externalID), err)
	}
	return val, nil
}
