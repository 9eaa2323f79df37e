package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Port string
	Env  string

	StoreDriver string
	DBURL       string
	SeedData    bool

	RedisURL      string
	EventsChannel string

	// Play analytics go to ClickHouse when ClickhouseAddr is set and stay in
	// memory otherwise.
	ClickhouseAddr     string
	ClickhouseDatabase string
	ClickhouseUsername string
	ClickhousePassword string

	AllowedOrigins     []string
	RateLimitPerMinute int

	// Empty keys are replaced with random ones at startup, which invalidates
	// existing session cookies on every restart.
	SessionAuthKey       string
	SessionEncryptionKey string

	UploadTick      time.Duration
	UploadDuration  time.Duration
	// Finished uploads stay queryable for UploadRetention.
	UploadRetention time.Duration

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads a .env file if one exists, then the process environment.
// Variables already set in the environment win over the .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		StoreDriver:          strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		DBURL:                os.Getenv("DB_URL"),
		SeedData:             getEnvBool("SEED_DATA", true),
		RedisURL:             os.Getenv("REDIS_URL"),
		EventsChannel:        getEnv("EVENTS_CHANNEL", "vidplay:events"),
		ClickhouseAddr:       os.Getenv("CLICKHOUSE_ADDR"),
		ClickhouseDatabase:   getEnv("CLICKHOUSE_DATABASE", "default"),
		ClickhouseUsername:   getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickhousePassword:   os.Getenv("CLICKHOUSE_PASSWORD"),
		AllowedOrigins:       splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 200),
		SessionAuthKey:       os.Getenv("SESSION_AUTH_KEY"),
		SessionEncryptionKey: os.Getenv("SESSION_ENCRYPTION_KEY"),
		UploadTick:           getEnvDuration("UPLOAD_TICK", 300*time.Millisecond),
		UploadDuration:       getEnvDuration("UPLOAD_DURATION", 3*time.Second),
		UploadRetention:      getEnvDuration("UPLOAD_RETENTION", 10*time.Minute),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFile:              os.Getenv("LOG_FILE"),
		LogMaxSizeMB:         getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups:        getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:        getEnvInt("LOG_MAX_AGE_DAYS", 28),
	}
}
