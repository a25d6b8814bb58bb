package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DatabaseURL string
	LogLevel    string

	// MigrateOnStart applies pending schema migrations before serving.
	MigrateOnStart bool
	// DecrementStockOnOrder makes order placement take stock out of
	// product_size in the same transaction as the order rows.
	DecrementStockOnOrder bool

	Session struct {
		Secret       string
		TTL          time.Duration
		CookieSecure bool
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Kafka struct {
		Brokers    []string
		OrderTopic string
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getenv("SERVER_PORT", "8080"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	cfg.Session.Secret = os.Getenv("SESSION_SECRET")
	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET must be set")
	}

	var err error
	if cfg.Session.TTL, err = time.ParseDuration(getenv("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL must be a duration: %w", err)
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.Session.CookieSecure, err = getbool("SESSION_COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.MigrateOnStart, err = getbool("MIGRATE_ON_START", true); err != nil {
		return nil, err
	}
	if cfg.DecrementStockOnOrder, err = getbool("DECREMENT_STOCK_ON_ORDER", true); err != nil {
		return nil, err
	}

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if cfg.Redis.DB, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("REDIS_DB must be a number: %w", err)
		}
	}

	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
		}
	}
	cfg.Kafka.OrderTopic = getenv("KAFKA_ORDER_TOPIC", "order_events")

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
