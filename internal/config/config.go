package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	SupportEmail string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	ConfirmTokenExpiry time.Duration

	// Email (Mailgun)
	EmailFrom      string
	MailgunDomain  string
	MailgunAPIKey  string
	MailgunAPIBase string // Optional: override for EU region or testing

	// Image generation (Stability AI or compatible)
	ImageGenAPIKey  string
	ImageGenAPIBase string
	ImageFormat     string

	// Background tasks
	TaskWorkers   int
	TaskQueueSize int

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "Critterpost"),
		AppEnv:       envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:       envRequired("APP_URL"), // Required: base URL for confirmation and post links
		Port:         envString("PORT", "8090"),
		SupportEmail: envString("SUPPORT_EMAIL", "hello@example.com"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/critterpost.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret:          envRequired("JWT_SECRET"),
		AccessTokenExpiry:  envDuration("ACCESS_TOKEN_EXPIRY", 30*time.Minute),
		ConfirmTokenExpiry: envDuration("CONFIRM_TOKEN_EXPIRY", 24*time.Hour),

		// Email (MAILGUN_API_KEY optional in development, required in production)
		EmailFrom:      envString("EMAIL_FROM", "noreply@example.com"),
		MailgunDomain:  envString("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:  envString("MAILGUN_API_KEY", ""),
		MailgunAPIBase: envString("MAILGUN_API_BASE", ""),

		// Image generation
		ImageGenAPIKey:  envString("IMAGEGEN_API_KEY", ""),
		ImageGenAPIBase: envString("IMAGEGEN_API_BASE", "https://api.stability.ai/v2beta/stable-image/generate/core"),
		ImageFormat:     envString("IMAGEGEN_OUTPUT_FORMAT", "png"),

		// Background tasks
		TaskWorkers:   envInt("TASK_WORKERS", 4),
		TaskQueueSize: envInt("TASK_QUEUE_SIZE", 64),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage (S3-compatible - required for media uploads)
		S3Region:    envRequired("S3_REGION"),
		S3Bucket:    envRequired("S3_BUCKET"),
		S3AccessKey: envRequired("S3_ACCESS_KEY"),
		S3SecretKey: envRequired("S3_SECRET_KEY"),
		S3Endpoint:  envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows email and image generation to use fallback modes for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.MailgunAPIKey == "" || cfg.MailgunDomain == "" {
		slog.Error("production deployment requires MAILGUN_API_KEY and MAILGUN_DOMAIN",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.ImageGenAPIKey == "" {
		slog.Error("production deployment requires IMAGEGEN_API_KEY")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
