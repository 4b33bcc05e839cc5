package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("ADMIN_SECRET_KEY", "s3cr3t")
	t.Setenv("NOTIFICATION_SERVICE_URL", "http://notify:3005/api/notifications/create")
	t.Setenv("NOTIFICATION_TIMEOUT", "2s")
	t.Setenv("NOTIFICATION_TRANSPORT", "rabbitmq")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.ServerPort)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "testuser", cfg.DBUser)
	assert.Equal(t, "testpass", cfg.DBPassword)
	assert.Equal(t, "testdb", cfg.DBName)
	assert.Equal(t, "cache", cfg.RedisHost)
	assert.Equal(t, "6380", cfg.RedisPort)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "s3cr3t", cfg.AdminSecretKey)
	assert.Equal(t, "http://notify:3005/api/notifications/create", cfg.NotificationServiceURL)
	assert.Equal(t, 2*time.Second, cfg.NotificationTimeout)
	assert.Equal(t, "rabbitmq", cfg.NotificationTransport)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ADMIN_EMAIL_SUFFIX", "")
	t.Setenv("ADMIN_SECRET_KEY", "")
	t.Setenv("NOTIFICATION_SERVICE_URL", "")
	t.Setenv("NOTIFICATION_TIMEOUT", "")
	t.Setenv("JWT_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "@geekplay.com", cfg.AdminEmailSuffix)
	assert.Empty(t, cfg.AdminSecretKey)
	assert.Equal(t, "http://localhost:3005/api/notifications/create", cfg.NotificationServiceURL)
	assert.Equal(t, 5*time.Second, cfg.NotificationTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
}

func TestLoadConfig_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("NOTIFICATION_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 5*time.Second, cfg.NotificationTimeout)
}
