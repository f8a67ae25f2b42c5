package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Env     string `envconfig:"APP_ENV" default:"development"`
	Port    int    `envconfig:"APP_PORT" default:"8080"`
	Mongo   MongoConfig
	Redis   RedisConfig
	Limiter RateLimiterConfig
	CORS    CORSConfig
	JWT     JWTConfig
	Gemini  GeminiConfig
	Stripe  StripeConfig
}

// document store configuration
type MongoConfig struct {
	URI      string        `envconfig:"MONGO_URI" required:"true"`
	Database string        `envconfig:"MONGO_DATABASE" default:"ai-interview"`
	Timeout  time.Duration `envconfig:"MONGO_TIMEOUT" default:"10s"`
}

// redis configuration, used for webhook dedupe and submission guards
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// rate limiting configuration
type RateLimiterConfig struct {
	RPS     float64 `envconfig:"RATE_LIMIT_RPS" default:"10"`
	Burst   int     `envconfig:"RATE_LIMIT_BURST" default:"20"`
	Enabled bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORS configuration
type CORSConfig struct {
	TrustedOrigins []string `envconfig:"CORS_TRUSTED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// JWT configuration
type JWTConfig struct {
	Secret         string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"24h"`
}

// Gemini AI configuration
type GeminiConfig struct {
	APIKey  string        `envconfig:"GEMINI_API_KEY" required:"true"`
	Model   string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	Timeout time.Duration `envconfig:"GEMINI_TIMEOUT" default:"30s"`
}

// Stripe billing configuration. Billing endpoints are disabled when the
// secret key is empty.
type StripeConfig struct {
	SecretKey       string `envconfig:"STRIPE_SECRET_KEY" default:""`
	WebhookSecret   string `envconfig:"STRIPE_WEBHOOK_SECRET" default:""`
	PremiumPriceID  string `envconfig:"STRIPE_PREMIUM_PRICE_ID" default:""`
	CheckoutSuccess string `envconfig:"STRIPE_SUCCESS_URL" default:"http://localhost:3000/dashboard"`
	CheckoutCancel  string `envconfig:"STRIPE_CANCEL_URL" default:"http://localhost:3000/checkout"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	if c.Limiter.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be non-negative")
	}
	if c.Limiter.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("MONGO_DATABASE must not be empty")
	}
	if len(c.CORS.TrustedOrigins) == 0 {
		return fmt.Errorf("at least one trusted origin must be specified")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GetCORSOrigins returns the list of trusted CORS origins
func (c *Config) GetCORSOrigins() []string {
	origins := make([]string, 0, len(c.CORS.TrustedOrigins))
	for _, origin := range c.CORS.TrustedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// BillingEnabled reports whether Stripe credentials were configured.
func (c *Config) BillingEnabled() bool {
	return c.Stripe.SecretKey != ""
}
