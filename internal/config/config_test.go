package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8500", cfg.Port)
	assert.Contains(t, cfg.AlertsAPIURL, "alerts.in.ua")
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5, cfg.MaxFailures)
	assert.Equal(t, time.Minute, cfg.UpdateInterval)
	assert.True(t, cfg.RetryAuthErrors)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("UPDATE_INTERVAL", "30")
	t.Setenv("MAX_FAILURES", "2")
	t.Setenv("RETRY_AUTH_ERRORS", "false")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100500")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.UpdateInterval)
	assert.Equal(t, 2, cfg.MaxFailures)
	assert.False(t, cfg.RetryAuthErrors)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("MAX_RETRIES", "not-a-number")
	cfg := Load()
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
}
