package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server             ServerConfig             `mapstructure:"server"`
	Database           DatabaseConfig           `mapstructure:"database"`
	Auth               AuthConfig               `mapstructure:"auth"`
	CORS               CORSConfig               `mapstructure:"cors"`
	RateLimit          RateLimitConfig          `mapstructure:"rate_limit"`
	Redis              RedisConfig              `mapstructure:"redis"`
	Queue              QueueConfig              `mapstructure:"queue"`
	Email              EmailConfig              `mapstructure:"email"`
	WebPush            WebPushConfig            `mapstructure:"web_push"`
	FCM                FCMConfig                `mapstructure:"fcm"`
	Dispatch           DispatchConfig           `mapstructure:"dispatch"`
	RecipientRateLimit RecipientRateLimitConfig `mapstructure:"recipient_rate_limit"`
	Pagination         PaginationConfig         `mapstructure:"pagination"`
	Reaper             ReaperConfig             `mapstructure:"reaper"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig holds database connection settings.
// Driver is "postgres" in production; "sqlite" is used by the seed
// command and tests.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// AuthConfig holds API key authentication settings.
type AuthConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

// CORSConfig holds CORS policy settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// RedisConfig holds Redis connection settings (queue + recipient limiter).
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// QueueConfig holds async dispatch queue settings.
type QueueConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	MaxRetry    int `mapstructure:"max_retry"`
}

// EmailConfig holds email provider settings.
type EmailConfig struct {
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// WebPushConfig holds VAPID settings for browser push delivery.
// Keys are URL-safe unpadded base64, as printed by `admin vapidkeys`.
type WebPushConfig struct {
	VAPIDPublicKey  string `mapstructure:"vapid_public_key"`
	VAPIDPrivateKey string `mapstructure:"vapid_private_key"`
	Subscriber      string `mapstructure:"subscriber"`
}

// FCMConfig holds Firebase Cloud Messaging settings.
type FCMConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
}

// DispatchConfig holds notification fan-out settings.
type DispatchConfig struct {
	ChannelTimeoutSec int `mapstructure:"channel_timeout_sec"`
}

// RecipientRateLimitConfig holds per-recipient notification rate limiting settings.
type RecipientRateLimitConfig struct {
	MaxPerHour int `mapstructure:"max_per_hour"`
}

// PaginationConfig holds listing defaults.
type PaginationConfig struct {
	MaxPageSize int `mapstructure:"max_page_size"`
}

// ReaperConfig holds stale-record recovery settings (durations as seconds
// for YAML/env compat).
type ReaperConfig struct {
	IntervalSec       int `mapstructure:"interval_sec"`
	StaleThresholdSec int `mapstructure:"stale_threshold_sec"`
	BatchSize         int `mapstructure:"batch_size"`
}

// Load reads configuration from config.yaml and environment variables.
// Environment variables use the CLASSLY_ prefix and underscore separators.
// Example: CLASSLY_SERVER_PORT overrides server.port in config.yaml.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Load .env file if it exists
	_ = godotenv.Load()

	v.SetEnvPrefix("CLASSLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=classly password=classly dbname=classly port=5432 sslmode=disable")
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.max_retry", 3)
	v.SetDefault("email.from_address", "no-reply@classly.io")
	v.SetDefault("email.from_name", "Classly")
	v.SetDefault("web_push.subscriber", "mailto:admin@classly.io")
	v.SetDefault("dispatch.channel_timeout_sec", 15)
	v.SetDefault("recipient_rate_limit.max_per_hour", 30)
	v.SetDefault("pagination.max_page_size", 100)
	v.SetDefault("reaper.interval_sec", 300)
	v.SetDefault("reaper.stale_threshold_sec", 600)
	v.SetDefault("reaper.batch_size", 50)

	// Secrets have no meaningful default, but Unmarshal only sees keys viper
	// already knows about. Registering them empty keeps the env-only path
	// (CLASSLY_EMAIL_API_KEY and friends) working without a config file.
	v.SetDefault("email.api_key", "")
	v.SetDefault("web_push.vapid_public_key", "")
	v.SetDefault("web_push.vapid_private_key", "")
	v.SetDefault("fcm.credentials_file", "")

	// Config file is optional; env vars can provide everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Handle comma-separated API keys from env var
	if apiKeysStr := v.GetString("auth.api_keys"); apiKeysStr != "" && len(cfg.Auth.APIKeys) == 0 {
		keys := strings.Split(apiKeysStr, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}
		cfg.Auth.APIKeys = keys
	}

	return &cfg, nil
}
