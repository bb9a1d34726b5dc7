package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_DSN", "file:test.db")
	t.Setenv("INITIAL_ADMIN_PASSWORD", "rahasia123")
	t.Setenv("INITIAL_ADMIN_EMAIL", "admin@example.go.id")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "admin", cfg.InitialAdmin.Username)
	assert.Equal(t, 86400, cfg.JWT.Expiration)
	assert.Equal(t, "email_queue", cfg.RabbitMQ.Queue)
	assert.Equal(t, 900, cfg.OTP.Expiration)
	assert.Equal(t, "Asia/Jakarta", cfg.Timezone)
	assert.True(t, cfg.RegistrationEnabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REGISTRATION_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.False(t, cfg.RegistrationEnabled)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
