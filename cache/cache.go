package cache

import (
	"context"
	"sync"
	"time"
)

type Observer interface {
	CacheHit()
	CacheMiss()
}

// Store is a keyed TTL store shared by concurrent requests. Last write wins.
type Store[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, v T)
}

type entry[T any] struct {
	val T
	exp time.Time
}

// Memory is an in-process Store. Expired entries are never returned and are
// swept on write.
type Memory[T any] struct {
	mu  sync.RWMutex
	m   map[string]entry[T]
	ttl time.Duration
	obs Observer
	now func() time.Time
}

func NewMemory[T any](ttl time.Duration, obs Observer) *Memory[T] {
	return &Memory[T]{m: make(map[string]entry[T]), ttl: ttl, obs: obs, now: time.Now}
}

func (c *Memory[T]) Get(_ context.Context, key string) (T, bool) {
	var zero T
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.exp) {
		if c.obs != nil {
			c.obs.CacheMiss()
		}
		return zero, false
	}
	if c.obs != nil {
		c.obs.CacheHit()
	}
	return e.val, true
}

func (c *Memory[T]) Set(_ context.Context, key string, v T) {
	now := c.now()
	c.mu.Lock()
	for k, e := range c.m {
		if now.After(e.exp) {
			delete(c.m, k)
		}
	}
	c.m[key] = entry[T]{val: v, exp: now.Add(c.ttl)}
	c.mu.Unlock()
}

// Range calls fn for every live entry until fn returns false. fn must not
// call back into the cache.
func (c *Memory[T]) Range(fn func(key string, v T) bool) {
	now := c.now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, e := range c.m {
		if now.After(e.exp) {
			continue
		}
		if !fn(k, e.val) {
			return
		}
	}
}

func (c *Memory[T]) Len() int {
	n := 0
	c.Range(func(string, T) bool { n++; return true })
	return n
}
