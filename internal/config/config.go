package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Sync        SyncConfig
	Rules       RulesConfig
	Anomaly     AnomalyConfig
	Correlation CorrelationConfig
	Notify      NotifyConfig
	Logging     LoggingConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Environment     string
	AllowedOrigins  []string
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// SyncConfig contains inventory sync configuration
type SyncConfig struct {
	Interval    time.Duration
	Workers     int
	MaxRetries  int
	BackoffBase time.Duration
}

// RulesConfig contains recommendation engine configuration
type RulesConfig struct {
	AutoResolve bool
}

// AnomalyConfig contains anomaly detection configuration
type AnomalyConfig struct {
	CountThreshold int
}

// CorrelationConfig contains alert correlation configuration
type CorrelationConfig struct {
	Window time.Duration
}

// NotifyConfig contains notification dispatch configuration
type NotifyConfig struct {
	SlackWebhookURL string
	TeamsWebhookURL string
	MinSeverity     string
	Timeout         time.Duration
	Retries         int
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "cloudwatcher"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./cloudwatcher.db"),
		},
		Sync: SyncConfig{
			Interval:    getEnvAsDuration("SYNC_INTERVAL", 5*time.Minute),
			Workers:     getEnvAsInt("SYNC_WORKERS", 4),
			MaxRetries:  getEnvAsInt("SYNC_MAX_RETRIES", 3),
			BackoffBase: getEnvAsDuration("SYNC_BACKOFF_BASE", 500*time.Millisecond),
		},
		Rules: RulesConfig{
			AutoResolve: getEnvAsBool("RULES_AUTO_RESOLVE", false),
		},
		Anomaly: AnomalyConfig{
			CountThreshold: getEnvAsInt("ANOMALY_COUNT_THRESHOLD", 5),
		},
		Correlation: CorrelationConfig{
			Window: getEnvAsDuration("CORRELATION_WINDOW", 24*time.Hour),
		},
		Notify: NotifyConfig{
			SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
			TeamsWebhookURL: getEnv("TEAMS_WEBHOOK_URL", ""),
			MinSeverity:     getEnv("NOTIFY_MIN_SEVERITY", "high"),
			Timeout:         getEnvAsDuration("NOTIFY_TIMEOUT", 5*time.Second),
			Retries:         getEnvAsInt("NOTIFY_RETRIES", 2),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Sync.Workers < 1 {
		return fmt.Errorf("SYNC_WORKERS must be at least 1, got %d", c.Sync.Workers)
	}

	if c.Sync.MaxRetries < 0 {
		return fmt.Errorf("SYNC_MAX_RETRIES must not be negative, got %d", c.Sync.MaxRetries)
	}

	switch c.Notify.MinSeverity {
	case "low", "medium", "high", "critical":
	default:
		return fmt.Errorf("invalid NOTIFY_MIN_SEVERITY: %s", c.Notify.MinSeverity)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
