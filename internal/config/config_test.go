package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("REDIS_ADDR", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, 60*time.Second, cfg.Render.Timeout)
}

func TestLoadOverridesAndBadInt(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_TTL_HOURS", "not-a-number")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 72*time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.RedisEnabled())
}

func TestValidateRequiresSecrets(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "s"
	cfg.Payment.KeyID = "k"
	cfg.Payment.KeySecret = "x"
	assert.NoError(t, cfg.Validate())
}
