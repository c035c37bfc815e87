package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("RUN_ADDRESS", ":9090")
	t.Setenv("DATABASE_DSN", "postgres://env/dsn")
	t.Setenv("TOKEN_SECRET_KEY", "env-secret")
	t.Setenv("TOKEN_TTL", "120")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://env/dsn", cfg.DatabaseDSN)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 120*time.Second, cfg.TokenValidityDuration)
}

func TestParseEnv_UnsetLeavesDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	want := *cfg

	parseEnv(cfg)

	assert.Equal(t, want, *cfg)
}

func TestParseEnv_BadTTLPanics(t *testing.T) {
	t.Setenv("TOKEN_TTL", "ten")

	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Panics(t, func() { parseEnv(cfg) })
}
