package config

import (
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Port string
	Env  string
}

type RegistryDBConfig struct {
	URL string
}

type TursoConfig struct {
	APIKey  string
	OrgSlug string
	BaseURL string
}

type MailConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	From        string
	TemplateDir string
}

type QueueConfig struct {
	User string
	Pass string
	Host string
	Port string
}

type CleanupConfig struct {
	StallWindow  time.Duration
	TickInterval time.Duration
}

type Config struct {
	Server      ServerConfig
	RegistryDB  RegistryDBConfig
	Turso       TursoConfig
	Mail        MailConfig
	Queue       QueueConfig
	Cleanup     CleanupConfig
	LogLevel    string
	ZipDataPath string
}

// Load reads configuration from the environment with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		RegistryDB: RegistryDBConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Turso: TursoConfig{
			APIKey:  getEnv("TURSO_API_KEY", ""),
			OrgSlug: getEnv("TURSO_ORG_SLUG", ""),
			BaseURL: getEnv("TURSO_API_URL", "https://api.turso.tech"),
		},
		Mail: MailConfig{
			Host:        getEnv("MAIL_HOST", "localhost"),
			Port:        getEnvInt("MAIL_PORT", 587),
			User:        getEnv("MAIL_USER", ""),
			Password:    getEnv("MAIL_PASS", ""),
			From:        getEnv("MAIL_FROM", "no-reply@agencydesk.io"),
			TemplateDir: getEnv("MAIL_TEMPLATE_DIR", "templates"),
		},
		Queue: QueueConfig{
			User: getEnv("RABBITMQ_USER", "guest"),
			Pass: getEnv("RABBITMQ_PASS", "guest"),
			Host: getEnv("RABBITMQ_HOST", "localhost"),
			Port: getEnv("RABBITMQ_PORT", "5672"),
		},
		Cleanup: CleanupConfig{
			StallWindow:  getEnvDuration("CLEANUP_STALL_WINDOW", 7*24*time.Hour),
			TickInterval: getEnvDuration("CLEANUP_TICK_INTERVAL", time.Hour),
		},
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ZipDataPath: getEnv("ZIP_DATA_PATH", "data/zipData.json"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
