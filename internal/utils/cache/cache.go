package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type (
	// Cache stores JSON encoded values by key. A miss is reported as
	// (false, nil).
	Cache interface {
		Get(ctx context.Context, key string, dest any) (bool, error)
		Set(ctx context.Context, key string, value any, ttl time.Duration) error
		Delete(ctx context.Context, keys ...string) error
	}

	redisCache struct {
		client *redis.Client
	}

	noopCache struct{}
)

func NewRedisCache(ctx context.Context, addr, password string) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &redisCache{client: client}, nil
}

func NewNoopCache() Cache {
	return noopCache{}
}

func (r *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (noopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) Delete(context.Context, ...string) error { return nil }
