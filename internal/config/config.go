package config

import (
	"os"
	"strconv"
	"time"
)

const (
	// DefaultUpdateIntervalSec is seconds between reconciliation cycles.
	DefaultUpdateIntervalSec = 60
	// DefaultRequestTimeoutSec is the per-request timeout for the alerts API.
	DefaultRequestTimeoutSec = 15
	// DefaultMaxRetries is the fetch attempt budget per cycle.
	DefaultMaxRetries = 3
	// DefaultMaxFailures is consecutive failed cycles before escalation.
	DefaultMaxFailures = 5
	// DefaultProbeIntervalSec is seconds between provider reachability probes.
	DefaultProbeIntervalSec = 120
)

type Config struct {
	Port string

	AlertsAPIURL   string
	AlertsAPIToken string
	RequestTimeout time.Duration
	MaxRetries     int
	// RetryAuthErrors controls whether 401/403 responses consume the retry
	// budget like transient errors. The upstream behavior is to retry.
	RetryAuthErrors bool

	UpdateInterval time.Duration
	MaxFailures    int

	TelegramToken  string
	TelegramChatID string

	RedisURL    string // optional; capital status survives restarts when set
	RabbitMQURL string // optional; AMQP fan-out of alert events when set

	ProbeTarget   string // optional; host for the ICMP reachability probe
	ProbeInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8500"),
		AlertsAPIURL:    getEnv("ALERTS_API_URL", "https://api.alerts.in.ua/v1/iot/active_air_raid_alerts.json"),
		AlertsAPIToken:  getEnv("ALERTS_API_TOKEN", ""),
		RequestTimeout:  getEnvSeconds("REQUEST_TIMEOUT", DefaultRequestTimeoutSec),
		MaxRetries:      getEnvInt("MAX_RETRIES", DefaultMaxRetries),
		RetryAuthErrors: getEnvBool("RETRY_AUTH_ERRORS", true),
		UpdateInterval:  getEnvSeconds("UPDATE_INTERVAL", DefaultUpdateIntervalSec),
		MaxFailures:     getEnvInt("MAX_FAILURES", DefaultMaxFailures),
		TelegramToken:   getEnv("TELEGRAM_TOKEN", ""),
		TelegramChatID:  getEnv("TELEGRAM_CHAT_ID", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		ProbeTarget:     getEnv("PROBE_TARGET", ""),
		ProbeInterval:   getEnvSeconds("PROBE_INTERVAL", DefaultProbeIntervalSec),
	}
}

// TelegramEnabled reports whether notifications are configured at all.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallbackSec int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackSec)) * time.Second
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
