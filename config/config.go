package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DBDriver    string // mysql | sqlite
	DatabaseURL string

	DataSource  string // database | rest
	RestBaseURL string
	RestAPIKey  string
	LoadTimeout time.Duration

	SnapshotTTL  time.Duration
	CacheBackend string // memory | redis
	CacheTTL     time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret    string
	AuthEnabled  bool
	AllowOrigins string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8081"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabaseURL: getEnv("DATABASE_URL", "catering.db"),

		DataSource:  strings.ToLower(getEnv("DATA_SOURCE", "database")),
		RestBaseURL: getEnv("REST_BASE_URL", ""),
		RestAPIKey:  getEnv("REST_API_KEY", ""),
		LoadTimeout: getDuration("LOAD_TIMEOUT", 30*time.Second),

		SnapshotTTL:  getDuration("SNAPSHOT_TTL", 5*time.Minute),
		CacheBackend: strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
		CacheTTL:     getDuration("CACHE_TTL", 5*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		JWTSecret:    getEnv("JWT_SECRET", "default-secret"),
		AuthEnabled:  getBool("AUTH_ENABLED", false),
		AllowOrigins: getEnv("ALLOW_ORIGINS", "http://localhost:3000"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return defaultValue
}
