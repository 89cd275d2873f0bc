package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	DatabaseReadURL string
	AutoMigrate     bool
	RedisURL        string
	JWTSecret       string
	AdminPassHash   string
	CORSOrigins     []string
	Stripe          StripeConfig
	S3              S3Config
	Logging         LoggingConfig
	RateLimit       RateLimitConfig
}

// StripeConfig holds payment provider credentials. Both secrets are optional at
// start-up; requests that need them fail with a configuration error instead.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	ProductName   string
}

type S3Config struct {
	Endpoint       string
	PublicEndpoint string
	Bucket         string
	AccessKey      string
	SecretKey      string
	Region         string
	UseSSL         bool
}

type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

type RateLimitConfig struct {
	CheckoutPerMinute int
	CommentsPerMinute int
	Prefix            string
}

// Load reads configuration from the environment and an optional .env file in
// the working directory.
func Load() (*Config, error) {
	return load(newViper("."))
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("STRIPE_CURRENCY", "usd")
	v.SetDefault("STRIPE_PRODUCT_NAME", "KindDraw")
	v.SetDefault("S3_BUCKET", "campaign-photos")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_SSL", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("RATE_LIMIT_CHECKOUT_PER_MINUTE", 20)
	v.SetDefault("RATE_LIMIT_COMMENTS_PER_MINUTE", 10)
	v.SetDefault("RATE_LIMIT_PREFIX", "kinddraw:rate_limit")

	// Legacy names used by earlier deployments.
	_ = v.BindEnv("STRIPE_WEBHOOK_SECRET", "STRIPE_WEBHOOK_SECRET", "STRIPE_WEBHOOKS_SECRET")
	_ = v.BindEnv("DATABASE_URL", "DATABASE_URL", "SUPABASE_DB_URL")
	_ = v.BindEnv("DATABASE_READ_URL", "DATABASE_READ_URL", "SUPABASE_ANON_DB_URL")
	return v
}

func load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Env:             v.GetString("APP_ENV"),
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		DatabaseURL:     strings.TrimSpace(v.GetString("DATABASE_URL")),
		DatabaseReadURL: strings.TrimSpace(v.GetString("DATABASE_READ_URL")),
		AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		RedisURL:        strings.TrimSpace(v.GetString("REDIS_URL")),
		JWTSecret:       v.GetString("JWT_SECRET"),
		AdminPassHash:   v.GetString("ADMIN_PASSWORD_HASH"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		Stripe: StripeConfig{
			SecretKey:     strings.TrimSpace(v.GetString("STRIPE_SECRET_KEY")),
			WebhookSecret: strings.TrimSpace(v.GetString("STRIPE_WEBHOOK_SECRET")),
			Currency:      strings.ToLower(strings.TrimSpace(v.GetString("STRIPE_CURRENCY"))),
			ProductName:   v.GetString("STRIPE_PRODUCT_NAME"),
		},
		S3: S3Config{
			Endpoint:       v.GetString("S3_ENDPOINT"),
			PublicEndpoint: v.GetString("S3_PUBLIC_ENDPOINT"),
			Bucket:         v.GetString("S3_BUCKET"),
			AccessKey:      v.GetString("S3_ACCESS_KEY"),
			SecretKey:      v.GetString("S3_SECRET_KEY"),
			Region:         v.GetString("S3_REGION"),
			UseSSL:         v.GetBool("S3_USE_SSL"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			File:   v.GetString("LOG_FILE"),
		},
		RateLimit: RateLimitConfig{
			CheckoutPerMinute: v.GetInt("RATE_LIMIT_CHECKOUT_PER_MINUTE"),
			CommentsPerMinute: v.GetInt("RATE_LIMIT_COMMENTS_PER_MINUTE"),
			Prefix:            v.GetString("RATE_LIMIT_PREFIX"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.DatabaseReadURL == "" {
		cfg.DatabaseReadURL = cfg.DatabaseURL
	}
	if cfg.Stripe.Currency == "" {
		cfg.Stripe.Currency = "usd"
	}

	return cfg, nil
}

// AdminEnabled reports whether admin login can issue tokens.
func (c *Config) AdminEnabled() bool {
	return c.JWTSecret != "" && c.AdminPassHash != ""
}

func splitList(val string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
