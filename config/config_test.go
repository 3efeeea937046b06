package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "SNAPSHOT_TTL", "CACHE_BACKEND", "AUTH_ENABLED", "REDIS_DB", "LOAD_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.SnapshotTTL)
	assert.Equal(t, 30*time.Second, cfg.LoadTimeout)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.False(t, cfg.AuthEnabled)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("SNAPSHOT_TTL", "90s")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 90*time.Second, cfg.SnapshotTTL)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.True(t, cfg.AuthEnabled)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SNAPSHOT_TTL", "soon")
	t.Setenv("AUTH_ENABLED", "maybe")
	t.Setenv("REDIS_DB", "x")

	cfg := Load()
	assert.Equal(t, 5*time.Minute, cfg.SnapshotTTL)
	assert.False(t, cfg.AuthEnabled)
	assert.Equal(t, 0, cfg.RedisDB)
}
