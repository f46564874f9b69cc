package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Dialogue store backends
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Update delivery modes
const (
	ModeLongPoll = "longpoll"
	ModeWebhook  = "webhook"
)

// Config holds all application configuration
type Config struct {
	BotToken        string
	AuthRequired    bool
	StaticDir       string
	Database        DatabaseConfig
	DialogueBackend string
	Redis           RedisConfig
	MetricsAddr     string
	RunMode         string
	LongPollTimeout time.Duration
	Webhook         WebhookConfig
	// DialogueRetention is how long idle dialogues are kept; zero disables cleanup
	DialogueRetention time.Duration
	LogDevelopment    bool
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// WebhookConfig holds webhook settings used in webhook mode
type WebhookConfig struct {
	Listen string
	URL    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:  os.Getenv("BOT_TOKEN"),
		StaticDir: os.Getenv("STATIC_DIR"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "qnabot"),
			User:     getEnv("DB_USER", "qnabot"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		DialogueBackend: getEnv("DIALOGUE_BACKEND", BackendPostgres),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		MetricsAddr: ":9090",
		RunMode:     getEnv("RUN_MODE", ModeLongPoll),
		Webhook: WebhookConfig{
			Listen: getEnv("WEBHOOK_LISTEN", ":8443"),
			URL:    os.Getenv("WEBHOOK_URL"),
		},
	}

	// An explicitly empty METRICS_ADDR disables the metrics server
	if addr, ok := os.LookupEnv("METRICS_ADDR"); ok {
		cfg.MetricsAddr = addr
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	authRequired := os.Getenv("AUTH_REQUIRED")
	if authRequired == "" {
		return nil, fmt.Errorf("AUTH_REQUIRED is required")
	}
	var err error
	if cfg.AuthRequired, err = strconv.ParseBool(authRequired); err != nil {
		return nil, fmt.Errorf("AUTH_REQUIRED must be a boolean: %w", err)
	}

	if cfg.StaticDir == "" {
		return nil, fmt.Errorf("STATIC_DIR is required")
	}
	if err := ensureDir(cfg.StaticDir); err != nil {
		return nil, fmt.Errorf("STATIC_DIR: %w", err)
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	switch cfg.DialogueBackend {
	case BackendPostgres, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("DIALOGUE_BACKEND must be one of postgres, redis, memory, got %q", cfg.DialogueBackend)
	}

	if cfg.Redis.DB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB must be a number: %w", err)
	}

	switch cfg.RunMode {
	case ModeLongPoll:
	case ModeWebhook:
		if cfg.Webhook.URL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required in webhook mode")
		}
	default:
		return nil, fmt.Errorf("RUN_MODE must be longpoll or webhook, got %q", cfg.RunMode)
	}

	if cfg.LongPollTimeout, err = time.ParseDuration(getEnv("LONGPOLL_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("LONGPOLL_TIMEOUT: %w", err)
	}

	retentionDays, err := strconv.Atoi(getEnv("DIALOGUE_RETENTION_DAYS", "60"))
	if err != nil || retentionDays < 0 {
		return nil, fmt.Errorf("DIALOGUE_RETENTION_DAYS must be a non-negative number")
	}
	cfg.DialogueRetention = time.Duration(retentionDays) * 24 * time.Hour

	cfg.LogDevelopment, _ = strconv.ParseBool(os.Getenv("LOG_DEVELOPMENT"))

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ensureDir creates path if missing and fails if it exists but is not a directory
func ensureDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
