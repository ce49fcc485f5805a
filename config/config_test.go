package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8001", cfg.Server.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 1440, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 7, cfg.JWT.RefreshTokenExpiry)
	assert.Equal(t, int64(10485760), cfg.Upload.MaxSize)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Email.Enabled())
	assert.Empty(t, cfg.Relay.URL)
	assert.Equal(t, "panel.events", cfg.Relay.Exchange)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load("does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("LOG_FORMAT", "Console")
	t.Setenv("RESEND_API_KEY", "re_x")
	t.Setenv("RESEND_FROM", "noreply@a.test")
	t.Setenv("APP_URL", "https://panel.a.test/")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Email.Enabled())
	assert.Equal(t, "https://panel.a.test", cfg.Email.AppURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")

	t.Run("port", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "abc")
		_, err := Load("does-not-exist.env")
		assert.Error(t, err)
	})

	t.Run("log format", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "xml")
		_, err := Load("does-not-exist.env")
		assert.Error(t, err)
	})
}
