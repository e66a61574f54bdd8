package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("POS_TEST_STR", "abc")
	t.Setenv("POS_TEST_INT", "42")
	t.Setenv("POS_TEST_BAD_INT", "forty-two")
	t.Setenv("POS_TEST_DUR", "90s")

	assert.Equal(t, "abc", GetEnv("POS_TEST_STR", "x"))
	assert.Equal(t, "x", GetEnv("POS_TEST_MISSING", "x"))
	assert.Equal(t, 42, GetEnvAsInt("POS_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvAsInt("POS_TEST_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, GetEnvAsDuration("POS_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, GetEnvAsDuration("POS_TEST_MISSING", time.Second))
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("LOW_STOCK_THRESHOLD", "7")
	t.Setenv("ALERT_CRON", "")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("ADMIN_USERNAME", "owner")

	cfg := Load()

	assert.Equal(t, "8088", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.DSN)
	assert.Equal(t, 7, cfg.Inventory.LowStockThreshold)
	assert.Empty(t, cfg.Alerts.Cron)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "owner", cfg.Admin.Username)
}
