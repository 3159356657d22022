package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "SITE_URL", "SUPPORTED_LANGUAGES", "FALLBACK_LANGUAGE",
		"NOTIFY_TO", "NOTIFY_FROM", "REQUIRE_EMAIL_CONFIRMATION", "SESSION_TTL_HOURS",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL",
	} {
		t.Setenv(key, "")
	}

	require.NoError(t, Load())

	assert.Equal(t, "3000", AppConfig.Port)
	assert.Equal(t, []string{"en", "np"}, AppConfig.SupportedLanguages)
	assert.Equal(t, "en", AppConfig.FallbackLanguage)
	assert.True(t, AppConfig.RequireEmailConfirmation)
	assert.Equal(t, 720*time.Hour, AppConfig.SessionTTL)
	assert.Equal(t, "http://localhost:3000/auth/google/callback", AppConfig.GoogleRedirectURL)
	assert.False(t, AppConfig.GoogleEnabled())
	assert.False(t, AppConfig.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SITE_URL", "https://nepalreforms.com/")
	t.Setenv("NOTIFY_TO", " admin@nepalreforms.com, ,team@nepalreforms.com ")
	t.Setenv("REQUIRE_EMAIL_CONFIRMATION", "false")
	t.Setenv("SESSION_TTL_HOURS", "24")
	t.Setenv("GOOGLE_CLIENT_ID", "client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "")

	require.NoError(t, Load())

	assert.True(t, AppConfig.IsProduction())
	assert.Equal(t, "https://nepalreforms.com", AppConfig.SiteURL)
	assert.Equal(t, []string{"admin@nepalreforms.com", "team@nepalreforms.com"}, AppConfig.NotifyTo)
	assert.False(t, AppConfig.RequireEmailConfirmation)
	assert.Equal(t, 24*time.Hour, AppConfig.SessionTTL)
	assert.True(t, AppConfig.GoogleEnabled())
	assert.Equal(t, "https://nepalreforms.com/auth/google/callback", AppConfig.GoogleRedirectURL)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:               "3000",
			Env:                "development",
			LogLevel:           "info",
			DBPath:             "./data/test.db",
			StaticDir:          "./static",
			LocalesDir:         "./static/locales",
			SiteURL:            "http://localhost:3000",
			SupportedLanguages: []string{"en", "np"},
			FallbackLanguage:   "en",
			NotifyFrom:         "noreply@example.com",
			NotifyFromName:     "NepalReforms",
			SessionTTL:         time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Port = "http" }, true},
		{"bad env", func(c *Config) { c.Env = "staging" }, true},
		{"bad site url", func(c *Config) { c.SiteURL = "not a url" }, true},
		{"no languages", func(c *Config) { c.SupportedLanguages = nil }, true},
		{"fallback not supported", func(c *Config) { c.FallbackLanguage = "fr" }, true},
		{"bad admin email", func(c *Config) { c.NotifyTo = []string{"nope"} }, true},
		{"google secret missing", func(c *Config) { c.GoogleClientID = "id" }, true},
		{"zero session ttl", func(c *Config) { c.SessionTTL = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
