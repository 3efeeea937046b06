package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingObserver struct {
	hits, misses int
}

func (o *countingObserver) CacheHit()  { o.hits++ }
func (o *countingObserver) CacheMiss() { o.misses++ }

func TestMemory_GetSetAndExpiry(t *testing.T) {
	obs := &countingObserver{}
	c := NewMemory[string](time.Minute, obs)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)

	c.Set(ctx, "a", "x")
	v, ok := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "a")
	assert.False(t, ok)

	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 2, obs.misses)
}

func TestMemory_SetSweepsExpired(t *testing.T) {
	c := NewMemory[int](time.Minute, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.Set(ctx, "old", 1)
	now = now.Add(time.Hour)
	c.Set(ctx, "new", 2)

	c.mu.RLock()
	_, stale := c.m["old"]
	c.mu.RUnlock()
	assert.False(t, stale)
	assert.Equal(t, 1, c.Len())
}

func TestMemory_RangeSkipsExpiredAndStops(t *testing.T) {
	c := NewMemory[int](time.Minute, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.Set(ctx, "a", 1)
	now = now.Add(30 * time.Second)
	c.Set(ctx, "b", 2)
	c.Set(ctx, "c", 3)
	now = now.Add(45 * time.Second)

	seen := map[string]int{}
	c.Range(func(k string, v int) bool {
		seen[k] = v
		return true
	})
	assert.Equal(t, map[string]int{"b": 2, "c": 3}, seen)

	calls := 0
	c.Range(func(string, int) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestResultKey(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	base := ResultKey("variations", "recipe", "", from, to)
	assert.Equal(t, base, ResultKey("Variations", " RECIPE ", "", from, to))
	assert.Equal(t, base, ResultKey("variations", "recipe", "", from.Add(5*time.Hour), to))
	assert.NotEqual(t, base, ResultKey("variations", "ingredient", "", from, to))
	assert.NotEqual(t, base, ResultKey("variations", "recipe", "", from, to.AddDate(0, 0, 1)))
	assert.NotEqual(t, base, ResultKey("history", "recipe", "", from, to))
	assert.NotEqual(t, base, ResultKey("variations", "recipe", "r1", from, to))
	assert.Len(t, base, 40)
}

func TestSnapshotKey(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	assert.Equal(t, "2024-06-30", SnapshotKey(time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-06-29", SnapshotKey(time.Date(2024, 6, 30, 0, 30, 0, 0, loc)))
}
