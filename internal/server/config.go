package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32         `mapstructure:"DB_MAX_CONNS"`
	JWKSEndpoint    string        `mapstructure:"JWKS_ENDPOINT"` // Identity provider JWKS endpoint
	JWTIssuer       string        `mapstructure:"JWT_ISSUER"`    // Expected JWT issuer
	ServerAddress   string        `mapstructure:"SERVER_ADDRESS"`
	Environment     string        `mapstructure:"ENVIRONMENT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"` // debug, info, warn, error
	SessionSecret   string        `mapstructure:"SESSION_SECRET"`
	SignInURL       string        `mapstructure:"SIGN_IN_URL"`
	APIBaseURL      string        `mapstructure:"API_BASE_URL"` // set only when the web tier runs apart from the API
	FeedCacheTTL    time.Duration `mapstructure:"FEED_CACHE_TTL"`
	FeedRenderWait  time.Duration `mapstructure:"FEED_RENDER_WAIT"`
	ComposerIdleTTL time.Duration `mapstructure:"COMPOSER_IDLE_TTL"`
}

// IsProduction reports whether cookies must be marked Secure.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

var configKeys = []string{
	"DATABASE_URL", "DB_MAX_CONNS", "JWKS_ENDPOINT", "JWT_ISSUER", "SERVER_ADDRESS",
	"ENVIRONMENT", "LOG_LEVEL", "SESSION_SECRET", "SIGN_IN_URL", "API_BASE_URL",
	"FEED_CACHE_TTL", "FEED_RENDER_WAIT", "COMPOSER_IDLE_TTL",
}

func LoadConfig(bootstrapLogger *logger.BootstrapLogger) (Config, error) {
	ctx := context.Background()

	// A missing .env file is fine; the environment is read either way.
	if err := godotenv.Load(); err != nil {
		bootstrapLogger.Info(ctx, "no .env file found, using environment variables only")
	} else {
		bootstrapLogger.Info(ctx, "loaded .env file")
	}

	v := viper.New()

	v.SetDefault("DATABASE_URL", "postgresql://localhost:5432/chirp?sslmode=disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SIGN_IN_URL", "/")
	v.SetDefault("FEED_CACHE_TTL", "30s")
	v.SetDefault("FEED_RENDER_WAIT", "300ms")
	v.SetDefault("COMPOSER_IDLE_TTL", "30m")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about.
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		bootstrapLogger.Error(ctx, "failed to unmarshal configuration", "error", err)
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	bootstrapLogger.Info(ctx, "configuration loaded",
		"environment", config.Environment,
		"log_level", config.LogLevel,
		"server_address", config.ServerAddress,
		"web_only", config.APIBaseURL != "",
	)
	return config, nil
}

// ValidateServe checks what serving the full stack needs.
func (c Config) ValidateServe() error {
	var errs []error
	if c.JWKSEndpoint == "" {
		errs = append(errs, errors.New("JWKS_ENDPOINT is required"))
	}
	if c.JWTIssuer == "" {
		errs = append(errs, errors.New("JWT_ISSUER is required"))
	}
	if len(c.SessionSecret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 bytes"))
	}
	return errors.Join(errs...)
}

// ValidateWeb checks what serving only the web tier needs.
func (c Config) ValidateWeb() error {
	if c.APIBaseURL == "" {
		return errors.Join(errors.New("API_BASE_URL is required"), c.ValidateServe())
	}
	return c.ValidateServe()
}

// LoadServeConfig loads and validates the configuration for the full stack.
func LoadServeConfig(bootstrapLogger *logger.BootstrapLogger) (Config, error) {
	config, err := LoadConfig(bootstrapLogger)
	if err != nil {
		return Config{}, err
	}
	if err := config.ValidateServe(); err != nil {
		bootstrapLogger.Error(context.Background(), "configuration validation failed", "error", err)
		return Config{}, err
	}
	return config, nil
}

// LoadWebConfig loads and validates the configuration for the web tier.
func LoadWebConfig(bootstrapLogger *logger.BootstrapLogger) (Config, error) {
	config, err := LoadConfig(bootstrapLogger)
	if err != nil {
		return Config{}, err
	}
	if err := config.ValidateWeb(); err != nil {
		bootstrapLogger.Error(context.Background(), "configuration validation failed", "error", err)
		return Config{}, err
	}
	return config, nil
}
