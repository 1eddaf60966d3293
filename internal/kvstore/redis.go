package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store shared by every session pointing at the same server,
// which makes cross-process change notifications observable as actual
// shared state. Keys are prefixed to keep the namespace clean.
type Redis struct {
	ctx    context.Context
	client *redis.Client
	prefix string
}

// NewRedis wraps an existing client. The base context bounds every call;
// the Store contract itself is synchronous.
func NewRedis(ctx context.Context, client *redis.Client, prefix string) *Redis {
	return &Redis{ctx: ctx, client: client, prefix: prefix}
}

func (r *Redis) Get(key string) (string, bool, error) {
	val, err := r.client.Get(r.ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, true, nil
}

func (r *Redis) Set(key, value string) error {
	if err := r.client.Set(r.ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(key string) error {
	if err := r.client.Del(r.ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}
