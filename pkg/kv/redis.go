package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	pkgredis "github.com/angelmondragon/stride-storefront/pkg/redis"
)

type redisBackend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	StateKey(owner, name string) string
	Close() error
}

// Redis keeps entries under the stride:state:<owner> namespace so several
// clients can share one instance.
type Redis struct {
	client redisBackend
	owner  string
}

var _ redisBackend = (*pkgredis.Client)(nil)

func NewRedis(client *pkgredis.Client, owner string) *Redis {
	return &Redis{client: client, owner: owner}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.client.StateKey(r.owner, key))
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return value, err
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.client.StateKey(r.owner, key), value, 0)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.client.StateKey(r.owner, key))
}

func (r *Redis) Close() error {
	return r.client.Close()
}
