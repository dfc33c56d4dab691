package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ALLOW_ADMIN_SIGNUP", "")
	t.Setenv("STATUS_POLL_INTERVAL", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr())
	assert.True(t, cfg.AllowAdminSignup)
	assert.Equal(t, time.Minute, cfg.StatusPollInterval)
	assert.Equal(t, "America/Sao_Paulo", cfg.StudioTimezone)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ALLOW_ADMIN_SIGNUP", "false")
	t.Setenv("STATUS_POLL_INTERVAL", "30s")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg := Load()
	assert.Equal(t, ":9000", cfg.Addr())
	assert.False(t, cfg.AllowAdminSignup)
	assert.Equal(t, 30*time.Second, cfg.StatusPollInterval)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://painel.studio.com, http://localhost:5173,")
	assert.Equal(t, []string{"https://painel.studio.com", "http://localhost:5173"}, Load().CORSOrigins)
}
