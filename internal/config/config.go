package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
	SessionBackendMongo  = "mongo"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	PageSize        int

	DBDriver       string
	DBPath         string
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	MigrationsPath string

	SessionBackend    string
	SessionTTL        time.Duration
	SessionMemorySize int
	RedisAddr         string
	RedisPassword     string
	MongoURI          string
	MongoDBName       string

	KafkaBrokers []string
	KafkaTopic   string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBPath:         getEnv("DB_PATH", "./storefront.db"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "storefront"),
		SessionBackend: getEnv("SESSION_BACKEND", SessionBackendMemory),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:    getEnv("MONGO_DB_NAME", "storefront"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "orders-placed"),
	}

	var err error
	if cfg.DBPort, err = getInt("DB_PORT", 5432); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = getInt("PAGE_SIZE", 4); err != nil {
		return nil, err
	}
	if cfg.SessionMemorySize, err = getInt("SESSION_MEMORY_SIZE", 10000); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	cfg.MigrationsPath = getEnv("MIGRATIONS_PATH", "./internal/repository/migrations/"+cfg.DBDriver)

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	switch cfg.SessionBackend {
	case SessionBackendMemory, SessionBackendRedis, SessionBackendMongo:
	default:
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q", cfg.SessionBackend)
	}
	for key, d := range map[string]time.Duration{
		"REQUEST_TIMEOUT":  cfg.RequestTimeout,
		"SHUTDOWN_TIMEOUT": cfg.ShutdownTimeout,
		"SESSION_TTL":      cfg.SessionTTL,
	} {
		if d <= 0 {
			return nil, fmt.Errorf("invalid %s %s: must be positive", key, d)
		}
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("invalid PAGE_SIZE %d: must be positive", cfg.PageSize)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
