package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/cashflow-forecaster/internal/models"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBConn    string
	LogLevel  string
	JWTSecret string
	TokenTTL  time.Duration

	// Forecast defaults for users who have not configured their own settings
	DefaultSafetyBuffer models.Money
	DefaultTimezone     string
	DefaultCurrency     string
	ProjectionDays      int
	MaxProjectionDays   int

	// Low balance alerts
	AlertSchedule      string
	AlertLookaheadDays int

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBConn:          getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=cashflow sslmode=disable"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "UTC"),
		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
		AlertSchedule:   getEnv("ALERT_SCHEDULE", "0 7 * * *"),
		SMTPHost:        getEnv("SMTP_HOST", "localhost"),
		SMTPPort:        getEnv("SMTP_PORT", "25"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SenderEmail:     getEnv("SENDER_EMAIL", "alerts@cashflow.local"),
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if cfg.DefaultSafetyBuffer, err = models.ParseMoney(getEnv("DEFAULT_SAFETY_BUFFER", "100")); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_SAFETY_BUFFER: %w", err)
	}
	if cfg.ProjectionDays, err = getEnvInt("PROJECTION_DAYS", 90); err != nil {
		return nil, err
	}
	if cfg.MaxProjectionDays, err = getEnvInt("MAX_PROJECTION_DAYS", 365); err != nil {
		return nil, err
	}
	if cfg.AlertLookaheadDays, err = getEnvInt("ALERT_LOOKAHEAD_DAYS", 14); err != nil {
		return nil, err
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DefaultSafetyBuffer < 0 {
		return nil, fmt.Errorf("DEFAULT_SAFETY_BUFFER must not be negative")
	}
	if _, err := time.LoadLocation(cfg.DefaultTimezone); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TIMEZONE: %w", err)
	}
	if cfg.MaxProjectionDays < 1 || cfg.MaxProjectionDays > 365 {
		return nil, fmt.Errorf("MAX_PROJECTION_DAYS must be between 1 and 365")
	}
	if cfg.ProjectionDays < 1 || cfg.ProjectionDays > cfg.MaxProjectionDays {
		return nil, fmt.Errorf("PROJECTION_DAYS must be between 1 and MAX_PROJECTION_DAYS")
	}
	if cfg.AlertLookaheadDays < 1 || cfg.AlertLookaheadDays > cfg.MaxProjectionDays {
		return nil, fmt.Errorf("ALERT_LOOKAHEAD_DAYS must be between 1 and MAX_PROJECTION_DAYS")
	}
	if _, err := cron.ParseStandard(cfg.AlertSchedule); err != nil {
		return nil, fmt.Errorf("invalid ALERT_SCHEDULE: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
