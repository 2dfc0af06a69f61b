// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string `validate:"required,numeric"`
	ReadTimeout  int    `validate:"gte=0"` // seconds
	WriteTimeout int    `validate:"gte=0"` // seconds
	IdleTimeout  int    `validate:"gte=0"` // seconds
}

// DatabaseConfig holds connection settings. Driver "sqlite" uses Path;
// "postgres" uses either DSNOverride or the discrete fields.
type DatabaseConfig struct {
	Driver      string `validate:"oneof=postgres sqlite"`
	DSNOverride string
	Host        string `validate:"required_if=Driver postgres"`
	Port        int    `validate:"gte=0,lte=65535"`
	User        string
	Password    string
	DBName      string `validate:"required_if=Driver postgres"`
	SSLMode     string
	Path        string `validate:"required_if=Driver sqlite"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev         bool
	Migrations  bool
	LogMode     string
	Lang        string `validate:"oneof=ja en"`
	CatalogPath string
	// GenerateDelay is the artificial latency added to every suggestion
	// request. Zero disables it.
	GenerateDelay time.Duration `validate:"gte=0"`
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	if d.DSNOverride != "" {
		return NormalizeDSN(d.DSNOverride)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// NormalizeDSN trims quotes and whitespace from a DSN. URL-style DSNs are
// returned as-is; key=value lists get sslmode=disable when it is missing.
func NormalizeDSN(raw string) string {
	s := strings.Trim(strings.TrimSpace(raw), "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	if !strings.Contains(s, "=") {
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "postgres"),
			DSNOverride: os.Getenv("DATABASE_DSN"),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "skills"),
			Password:    getEnv("DB_PASSWORD", "skills123"),
			DBName:      getEnv("DB_NAME", "skills"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			Path:        getEnv("DB_PATH", "file:skills.db?_foreign_keys=1"),
		},
		App: AppConfig{
			Dev:           getEnvBool("DEV", true),
			Migrations:    getEnvBool("MIGRATIONS", true),
			LogMode:       getEnv("LOG_MODE", "dev"),
			Lang:          getEnv("DEFAULT_LANG", "ja"),
			CatalogPath:   os.Getenv("SKILL_CATALOG"),
			GenerateDelay: getEnvDuration("GENERATE_DELAY", time.Second),
		},
	}
}

// Validate checks the struct tags of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration accepts Go duration strings ("750ms") or plain milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
