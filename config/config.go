package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `validate:"required,numeric"`
	Env      string `validate:"required,oneof=development production test"`
	LogLevel string `validate:"required,oneof=debug info warn error"`

	DBPath     string `validate:"required"`
	StaticDir  string `validate:"required"`
	LocalesDir string `validate:"required"`
	SiteURL    string `validate:"required,url"`

	SupportedLanguages []string `validate:"min=1,dive,required"`
	FallbackLanguage   string   `validate:"required"`

	CORSOrigins string

	ResendAPIKey   string
	NotifyFrom     string   `validate:"required,email"`
	NotifyFromName string   `validate:"required"`
	NotifyTo       []string `validate:"dive,email"`

	SignupEnabled            bool
	RequireEmailConfirmation bool
	SessionTTL               time.Duration `validate:"gt=0"`

	GoogleClientID     string
	GoogleClientSecret string `validate:"required_with=GoogleClientID"`
	GoogleRedirectURL  string
}

var AppConfig *Config

// Load reads .env (when present) and the environment into AppConfig and
// validates the result.
func Load() error {
	_ = godotenv.Load()

	cfg := &Config{
		Port:     GetEnv("PORT", "3000"),
		Env:      GetEnv("ENV", "development"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),

		DBPath:     GetEnv("DB_PATH", "./data/nepal-reforms.db"),
		StaticDir:  GetEnv("STATIC_DIR", "./static"),
		LocalesDir: GetEnv("LOCALES_DIR", "./static/locales"),
		SiteURL:    strings.TrimRight(GetEnv("SITE_URL", "http://localhost:3000"), "/"),

		SupportedLanguages: GetEnvList("SUPPORTED_LANGUAGES", []string{"en", "np"}),
		FallbackLanguage:   GetEnv("FALLBACK_LANGUAGE", "en"),

		CORSOrigins: GetEnv("CORS_ORIGINS", "*"),

		ResendAPIKey:   GetEnv("RESEND_API_KEY", ""),
		NotifyFrom:     GetEnv("NOTIFY_FROM", "onboarding@resend.dev"),
		NotifyFromName: GetEnv("NOTIFY_FROM_NAME", "NepalReforms"),
		NotifyTo:       GetEnvList("NOTIFY_TO", nil),

		SignupEnabled:            GetEnvBool("SIGNUP_ENABLED", true),
		RequireEmailConfirmation: GetEnvBool("REQUIRE_EMAIL_CONFIRMATION", true),
		SessionTTL:               time.Duration(GetEnvInt("SESSION_TTL_HOURS", 720)) * time.Hour,

		GoogleClientID:     GetEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: GetEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  GetEnv("GOOGLE_REDIRECT_URL", ""),
	}

	if cfg.GoogleRedirectURL == "" {
		cfg.GoogleRedirectURL = cfg.SiteURL + "/auth/google/callback"
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

// Validate checks the struct tags and that the fallback language is supported.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for _, lang := range c.SupportedLanguages {
		if lang == c.FallbackLanguage {
			return nil
		}
	}
	return fmt.Errorf("invalid configuration: FALLBACK_LANGUAGE %q is not in SUPPORTED_LANGUAGES", c.FallbackLanguage)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvList splits a comma separated variable, dropping blank entries.
func GetEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func GetEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
