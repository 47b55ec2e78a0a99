package cache

import (
	"context"
	"errors"
	"time"

	"inventorylite-backend/internal/config"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned on cache misses and whenever caching is disabled, so
// call sites fall through to the database either way.
var ErrMiss = errors.New("cache: miss")

var client *redis.Client

func Init(cfg *config.Config) {
	if cfg.RedisAddr == "" {
		client = nil
		return
	}
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func Enabled() bool { return client != nil }

func Get(ctx context.Context, key string) ([]byte, error) {
	if client == nil {
		return nil, ErrMiss
	}
	b, err := client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	return b, err
}

func Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	return client.Set(ctx, key, value, ttl).Err()
}

func Delete(ctx context.Context, keys ...string) error {
	if client == nil || len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}
