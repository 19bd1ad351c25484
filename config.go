package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port         string
	GinMode      string
	DatabasePath string

	// StateKey is the key/value slot the OPORD builder persists into.
	StateKey string
	Location *time.Location

	SMTP            SMTPConfig
	TrackingEnabled bool
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	To   string
}

// loadConfig reads the environment (and .env, via godotenv autoload).
func loadConfig() (Config, error) {
	cfg := Config{
		Port:         getenv("PORT", "8080"),
		GinMode:      os.Getenv("GIN_MODE"),
		DatabasePath: getenv("DATABASE_PATH", "portfolio.db"),
		StateKey:     getenv("OPORD_STATE_KEY", "opord-state"),
		Location:     time.Local,
		SMTP: SMTPConfig{
			Host: getenv("SMTP_HOST", "smtp.gmail.com"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			To:   os.Getenv("TO_EMAIL"),
		},
		TrackingEnabled: true,
	}

	port, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil {
		return Config{}, fmt.Errorf("SMTP_PORT: %w", err)
	}
	cfg.SMTP.Port = port

	if cfg.SMTP.To == "" {
		cfg.SMTP.To = cfg.SMTP.User
	}

	if tz := strings.TrimSpace(os.Getenv("OPORD_TIMEZONE")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("OPORD_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if v := os.Getenv("TRACKING_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("TRACKING_ENABLED: %w", err)
		}
		cfg.TrackingEnabled = enabled
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
