package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig carries every runtime setting of the server. All values come from
// the environment; optional backends (Redis, Postgres) are enabled by the
// presence of their URL.
type AppConfig struct {
	Addr       string
	HealthAddr string

	RedisURL    string
	DatabaseURL string

	SendQueueSize   int
	NotifyQueueSize int

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	MsgTemplateDir string
}

// Load reads the environment and applies defaults. Invalid numeric or
// duration values fall back to the default rather than failing startup.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Addr:                 ":8080",
		HealthAddr:           ":8081",
		SendQueueSize:        64,
		NotifyQueueSize:      256,
		SessionTTL:           24 * time.Hour,
		SessionSweepInterval: 10 * time.Minute,
	}

	if v := strings.TrimSpace(os.Getenv("ADDR")); v != "" {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv("HEALTH_ADDR"); ok {
		// Explicit empty HEALTH_ADDR disables the side listener.
		cfg.HealthAddr = strings.TrimSpace(v)
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.MsgTemplateDir = strings.TrimSpace(os.Getenv("MSG_TEMPLATE_DIR"))

	if v := strings.TrimSpace(os.Getenv("SEND_QUEUE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SendQueueSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("NOTIFY_QUEUE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NotifyQueueSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SESSION_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("SESSION_SWEEP_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionSweepInterval = d
		}
	}

	return cfg, nil
}
