package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// t.Setenv restores the previous values after each subtest.
func baseEnv(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/samyukta")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("RABBIT_URL", "")
	t.Setenv("CAP_MAX_TOTAL", "")
	t.Setenv("CAP_MAX_PITCH", "")
	t.Setenv("PITCH_DECK_MAX_BYTES", "")
}

func TestLoad(t *testing.T) {
	t.Run("should_return_error_if_database_url_is_missing", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("DATABASE_URL", "")
		cfg, err := Load()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Equal(t, "missing DATABASE_URL", err.Error())
	})

	t.Run("should_return_error_if_jwt_secret_is_missing", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("JWT_SECRET", "")
		cfg, err := Load()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Equal(t, "missing JWT_SECRET", err.Error())
	})

	t.Run("should_load_defaults", func(t *testing.T) {
		baseEnv(t)
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "dev", cfg.AppEnv)
		assert.Equal(t, "samyukta.events", cfg.RabbitExchange)
		assert.Equal(t, 400, cfg.Capacity.MaxTotal)
		assert.Equal(t, 350, cfg.Capacity.DirectJoinThreshold)
		assert.Equal(t, int64(10<<20), cfg.S3.PitchDeckMaxBytes)
		assert.False(t, cfg.SMTP.Enabled())
		assert.False(t, cfg.Push.Enabled())
		assert.False(t, cfg.Sheet.Enabled())
	})

	t.Run("should_apply_capacity_overrides", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("CAP_MAX_TOTAL", "500")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 500, cfg.Capacity.MaxTotal)
	})

	t.Run("should_reject_negative_capacity", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("CAP_MAX_PITCH", "-5")
		cfg, err := Load()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_pitch")
	})

	t.Run("should_fail_in_prod_if_rabbit_url_is_missing", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("APP_ENV", "prod")
		cfg, err := Load()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing RABBIT_URL")
	})
}

func TestGetEnv(t *testing.T) {
	t.Run("should_trim_whitespace", func(t *testing.T) {
		t.Setenv("TEST_KEY", "  value_with_spaces  ")
		assert.Equal(t, "value_with_spaces", getEnv("TEST_KEY", "default"))
	})
}

func TestGetDuration(t *testing.T) {
	t.Run("should_parse_valid_duration", func(t *testing.T) {
		t.Setenv("TEST_DUR", "5s")
		assert.Equal(t, 5*time.Second, getDuration("TEST_DUR", 10*time.Second))
	})

	t.Run("should_return_default_on_invalid_duration", func(t *testing.T) {
		t.Setenv("TEST_DUR", "invalid")
		assert.Equal(t, 10*time.Second, getDuration("TEST_DUR", 10*time.Second))
	})
}

func TestGetBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "off")
	assert.False(t, getBool("TEST_BOOL", true))
	t.Setenv("TEST_BOOL", "YES")
	assert.True(t, getBool("TEST_BOOL", false))
	t.Setenv("TEST_BOOL", "maybe")
	assert.True(t, getBool("TEST_BOOL", true))
}
