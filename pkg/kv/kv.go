// Package kv is the client-local key/value storage the shop uses for its
// persisted cart and credentials. Backends: process memory, a SQLite file, or Redis.
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/stride-storefront/pkg/config"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	pkgredis "github.com/angelmondragon/stride-storefront/pkg/redis"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a string key/value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open selects the backend named by cfg.StateDriver.
func Open(ctx context.Context, cfg config.ClientConfig, logg *logger.Logger) (Store, error) {
	switch cfg.StateDriver {
	case config.StateDriverMemory:
		return NewMemory(), nil
	case config.StateDriverSQLite:
		return OpenSQLite(ctx, cfg.StatePath)
	case config.StateDriverRedis:
		client, err := pkgredis.New(ctx, config.RedisConfig{URL: cfg.RedisURL, PoolSize: 2}, logg)
		if err != nil {
			return nil, err
		}
		return NewRedis(client, "shop"), nil
	default:
		return nil, fmt.Errorf("unsupported state driver %q", cfg.StateDriver)
	}
}
