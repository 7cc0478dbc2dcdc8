package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ContentCache 缓存只读的内容树；未命中返回 false
type ContentCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type RedisContentCache struct {
	Client *redis.Client
	Prefix string
}

func NewRedisContentCache(rdb *redis.Client) *RedisContentCache {
	return &RedisContentCache{Client: rdb, Prefix: "skillpath:outline:"}
}

func (c *RedisContentCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.Client.Get(ctx, c.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisContentCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.Prefix+key, data, ttl).Err()
}

func (c *RedisContentCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.Prefix + k
	}
	return c.Client.Del(ctx, full...).Err()
}

// NopCache 未配置 Redis 时使用
type NopCache struct{}

func (NopCache) Get(context.Context, string, interface{}) (bool, error)         { return false, nil }
func (NopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, ...string) error                       { return nil }
