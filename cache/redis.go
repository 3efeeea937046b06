package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Redis is a Store shared across service instances. Values are stored as
// JSON. Redis failures are logged and behave like a miss, so a cache outage
// never fails a request.
type Redis[T any] struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	obs    Observer
	log    *zap.Logger
}

func NewRedis[T any](rdb *redis.Client, prefix string, ttl time.Duration, obs Observer, log *zap.Logger) *Redis[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis[T]{rdb: rdb, prefix: prefix, ttl: ttl, obs: obs, log: log}
}

func (c *Redis[T]) Get(ctx context.Context, key string) (T, bool) {
	var v T
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err == nil {
		if err = json.Unmarshal(raw, &v); err == nil {
			c.hit()
			return v, true
		}
	}
	if !errors.Is(err, redis.Nil) {
		c.log.Warn("redis cache read failed", zap.String("key", key), zap.Error(err))
	}
	c.miss()
	var zero T
	return zero, false
}

func (c *Redis[T]) Set(ctx context.Context, key string, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("redis cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("redis cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Redis[T]) hit() {
	if c.obs != nil {
		c.obs.CacheHit()
	}
}

func (c *Redis[T]) miss() {
	if c.obs != nil {
		c.obs.CacheMiss()
	}
}
