package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration sourced from the environment.
type Server struct {
	Addr          string
	LogLevel      slog.Level
	JWTSigningKey string
	Postgres      PostgresConfig
	Redis         RedisConfig
	Kafka         KafkaConfig

	// SeedDefaultExperiments controls whether the default model comparison
	// experiment is created at startup.
	SeedDefaultExperiments bool

	// RegistryCacheTTL bounds staleness of cached experiment definitions.
	// Assignment and event writes never go through this cache.
	RegistryCacheTTL time.Duration
}

// PostgresConfig holds connection settings for the durable store.
type PostgresConfig struct {
	URL string
}

// RedisConfig holds connection settings for the registry cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the optional event stream settings. An empty broker list
// disables publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("LAURELIN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	logLevel := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	cacheTTL := 5 * time.Second
	if raw := os.Getenv("EXPERIMENT_CACHE_TTL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
			cacheTTL = time.Duration(secs) * time.Second
		}
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}
	topic := os.Getenv("KAFKA_EVENTS_TOPIC")
	if topic == "" {
		topic = "experiment.events"
	}

	return Server{
		Addr:          addr,
		LogLevel:      logLevel,
		JWTSigningKey: jwtSigningKey,
		Postgres: PostgresConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
		SeedDefaultExperiments: os.Getenv("AB_TEST_ENABLED") == "true",
		RegistryCacheTTL:       cacheTTL,
	}
}
