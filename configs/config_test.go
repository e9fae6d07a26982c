package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBaseWithDevOverlay(t *testing.T) {
	cfg, err := Load(".", "dev")
	require.NoError(t, err)

	assert.Equal(t, "smartsales-api", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
	assert.Contains(t, cfg.MySQL.DSN, "smartsales_dev")
	assert.Equal(t, 16, cfg.MySQL.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.MySQL.ConnMaxLifetime)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Minute, cfg.Security.TTL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SMARTSALES_MYSQL__DSN", "user:pw@tcp(db:3306)/override?parseTime=true")

	cfg, err := Load(".", "dev")
	require.NoError(t, err)
	assert.Contains(t, cfg.MySQL.DSN, "/override")
}

func TestValidate(t *testing.T) {
	var cfg Config
	assert.Error(t, cfg.Validate())

	cfg.App.HTTPAddr = ":8080"
	cfg.MySQL.DSN = "dsn"
	assert.Error(t, cfg.Validate(), "jwt secret still missing")

	cfg.Security.JWTSecret = "s"
	assert.NoError(t, cfg.Validate())
}
