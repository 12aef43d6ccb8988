package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     string
	JWTSecret    string // empty disables bearer auth on /api/v1

	CORSAllowedOrigins []string
	ReportRateLimit    string // ulule/limiter format, e.g. "30-M"; empty disables
	MaxUploadMB        int64

	// Pipeline
	DefaultExchangeRate decimal.Decimal
	JoinPolicy          domain.JoinPolicy
	LayoutFile          string // optional YAML override of sheet and header names

	// Analytics
	PosthogAPIKey   string `mapstructure:"POSTHOG_API_KEY"`
	PosthogEndpoint string `mapstructure:"POSTHOG_ENDPOINT"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("REPORT_RATE_LIMIT", "30-M")
	viper.SetDefault("MAX_UPLOAD_MB", 32)
	viper.SetDefault("DEFAULT_EXCHANGE_RATE", "1")
	viper.SetDefault("REFERENCE_JOIN_POLICY", string(domain.JoinAllMatches))
	viper.SetDefault("LAYOUT_FILE", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://us.i.posthog.com")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")
	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" && cfg.IsProduction {
		log.Println("Warning: JWT_SECRET not set in production. /api/v1 is unauthenticated.")
	}

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.ReportRateLimit = strings.TrimSpace(viper.GetString("REPORT_RATE_LIMIT"))

	cfg.MaxUploadMB = viper.GetInt64("MAX_UPLOAD_MB")
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 32
		log.Printf("Warning: Invalid MAX_UPLOAD_MB. Defaulting to %d.\n", cfg.MaxUploadMB)
	}

	rateStr := viper.GetString("DEFAULT_EXCHANGE_RATE")
	rate, err := decimal.NewFromString(strings.TrimSpace(rateStr))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_EXCHANGE_RATE %q: %w", rateStr, err)
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("invalid DEFAULT_EXCHANGE_RATE %q: must be greater than zero", rateStr)
	}
	cfg.DefaultExchangeRate = rate

	policy, err := domain.ParseJoinPolicy(viper.GetString("REFERENCE_JOIN_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFERENCE_JOIN_POLICY: %w", err)
	}
	cfg.JoinPolicy = policy

	cfg.LayoutFile = viper.GetString("LAYOUT_FILE")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// MaxUploadBytes is the request body limit for report uploads.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
