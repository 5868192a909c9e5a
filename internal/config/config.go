package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Persistence backends.
const (
	BackendNone     = "none"
	BackendRedis    = "redis"
	BackendDatabase = "database"
	BackendS3       = "s3"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env      string
	Port     string
	LogLevel string

	PersistenceBackend string
	SnapshotKey        string
	PersistTimeout     time.Duration
	SeedFile           string

	DatabaseURL string // Postgres DSN, or "sqlite:<path>"
	RedisURL    string

	S3Endpoint       string
	S3Region         string
	S3Bucket         string
	S3AccessKey      string
	S3SecretKey      string
	S3ForcePathStyle bool

	AdminKeyHash        string // bcrypt hash; empty disables admin endpoints
	FrontendURLEndsWith string
	DevPassword         string
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PERSISTENCE_BACKEND", BackendNone)
	v.SetDefault("SNAPSHOT_KEY", "coown-demand-v3")
	v.SetDefault("PERSIST_TIMEOUT", "5s")

	env := v.GetString("APP_ENV")
	if env == "" {
		env = v.GetString("NODE_ENV")
	}
	if env == "" {
		env = "development"
	}

	timeout := v.GetDuration("PERSIST_TIMEOUT")
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Config{
		Env:                 env,
		Port:                v.GetString("PORT"),
		LogLevel:            strings.ToLower(v.GetString("LOG_LEVEL")),
		PersistenceBackend:  strings.ToLower(strings.TrimSpace(v.GetString("PERSISTENCE_BACKEND"))),
		SnapshotKey:         v.GetString("SNAPSHOT_KEY"),
		PersistTimeout:      timeout,
		SeedFile:            v.GetString("SEED_FILE"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		RedisURL:            v.GetString("REDIS_URL"),
		S3Endpoint:          v.GetString("S3_ENDPOINT"),
		S3Region:            v.GetString("S3_REGION"),
		S3Bucket:            v.GetString("S3_BUCKET"),
		S3AccessKey:         v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:         v.GetString("S3_SECRET_KEY"),
		S3ForcePathStyle:    v.GetBool("S3_FORCE_PATH_STYLE"),
		AdminKeyHash:        v.GetString("ADMIN_KEY_HASH"),
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         v.GetString("DEV_PASSWORD"),
	}, nil
}
