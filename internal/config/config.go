package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB       DatabaseConfig
	Redis    RedisConfig
	WhatsApp WhatsAppConfig
	Mailer   MailerConfig
	Media    MediaConfig
	Session  SessionConfig
	Worker   WorkerConfig
	Scoring  ScoringConfig
	Auth     AuthConfig
	Admin    AdminConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// WhatsAppConfig contains credentials for the WhatsApp Business API provider.
type WhatsAppConfig struct {
	BaseURL       string
	PhoneID       string
	AccessToken   string
	WebhookSecret string
}

// MailerConfig contains credentials for the transactional email provider.
type MailerConfig struct {
	BaseURL       string
	APIKey        string
	FromAddress   string
	FromName      string
	WebhookSecret string
}

// MediaConfig contains S3-compatible object storage configuration for
// campaign and template attachments.
type MediaConfig struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// SessionConfig controls storefront session state kept in Redis.
type SessionConfig struct {
	TTL         time.Duration
	ModalityTTL time.Duration
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	CampaignInterval   time.Duration
	CampaignStaleAfter time.Duration
	ReminderInterval   time.Duration
	CartAbandonAfter   time.Duration
}

// ScoringConfig carries optional overrides for the catalog scoring policy.
// A nil entry means "use the default weight".
type ScoringConfig struct {
	CategoryMatch  *float64
	CarrierMatch   *float64
	InitialIntent  *float64
	DwellPerMinute *float64
	ViewSignal     *float64
	AddSignal      *float64
	RemovedPenalty *float64
	Featured       *float64
	LineCountFit   *float64
}

// AuthConfig tunes the throttling of failed storefront authentications.
type AuthConfig struct {
	RateLimitAttempts int
	RateLimitWindow   time.Duration
}

// AdminConfig seeds the first admin panel account at startup. Empty
// credentials skip the bootstrap.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:         getEnv("DB_HOST", ""),
		Port:         getEnv("DB_PORT", "5432"),
		User:         getEnv("DB_USER", ""),
		Password:     getEnv("DB_PASSWORD", ""),
		Name:         getEnv("DB_NAME", ""),
		SSLMode:      getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// WhatsApp provider
	cfg.WhatsApp = WhatsAppConfig{
		BaseURL:       getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v19.0"),
		PhoneID:       getEnv("WHATSAPP_PHONE_ID", ""),
		AccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WebhookSecret: getEnv("WHATSAPP_WEBHOOK_SECRET", ""),
	}

	// Email provider
	cfg.Mailer = MailerConfig{
		BaseURL:       getEnv("MAILER_BASE_URL", ""),
		APIKey:        getEnv("MAILER_API_KEY", ""),
		FromAddress:   getEnv("MAILER_FROM_ADDRESS", "contato@conecta.net.br"),
		FromName:      getEnv("MAILER_FROM_NAME", "Conecta"),
		WebhookSecret: getEnv("MAILER_WEBHOOK_SECRET", ""),
	}

	// Media storage
	cfg.Media = MediaConfig{
		Region:          getEnv("MEDIA_REGION", "sa-east-1"),
		Bucket:          getEnv("MEDIA_BUCKET", "conecta-media"),
		AccessKeyID:     getEnv("MEDIA_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("MEDIA_SECRET_ACCESS_KEY", ""),
	}

	// Sessions & workers (durations)
	var err error
	if cfg.Session.TTL, err = parseDurationEnv("SESSION_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.Session.ModalityTTL, err = parseDurationEnv("SESSION_MODALITY_TTL", "720h"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_MODALITY_TTL: %w", err)
	}
	if cfg.Worker.CampaignInterval, err = parseDurationEnv("CAMPAIGN_DISPATCH_INTERVAL", "30s"); err != nil {
		return nil, fmt.Errorf("invalid CAMPAIGN_DISPATCH_INTERVAL: %w", err)
	}
	if cfg.Worker.CampaignStaleAfter, err = parseDurationEnv("CAMPAIGN_STALE_AFTER", "10m"); err != nil {
		return nil, fmt.Errorf("invalid CAMPAIGN_STALE_AFTER: %w", err)
	}
	if cfg.Worker.ReminderInterval, err = parseDurationEnv("CART_REMINDER_INTERVAL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid CART_REMINDER_INTERVAL: %w", err)
	}
	if cfg.Worker.CartAbandonAfter, err = parseDurationEnv("CART_ABANDON_AFTER", "2h"); err != nil {
		return nil, fmt.Errorf("invalid CART_ABANDON_AFTER: %w", err)
	}

	// Scoring policy overrides
	cfg.Scoring = ScoringConfig{
		CategoryMatch:  getEnvFloat("SCORE_W_CATEGORY"),
		CarrierMatch:   getEnvFloat("SCORE_W_CARRIER"),
		InitialIntent:  getEnvFloat("SCORE_W_INITIAL_INTENT"),
		DwellPerMinute: getEnvFloat("SCORE_W_DWELL_PER_MINUTE"),
		ViewSignal:     getEnvFloat("SCORE_W_VIEW"),
		AddSignal:      getEnvFloat("SCORE_W_ADD"),
		RemovedPenalty: getEnvFloat("SCORE_W_REMOVED_PENALTY"),
		Featured:       getEnvFloat("SCORE_W_FEATURED"),
		LineCountFit:   getEnvFloat("SCORE_W_LINE_COUNT_FIT"),
	}

	// Failed-auth throttling
	cfg.Auth.RateLimitAttempts = getEnvInt("AUTH_RATE_LIMIT_ATTEMPTS", 5)
	if cfg.Auth.RateLimitWindow, err = parseDurationEnv("AUTH_RATE_LIMIT_WINDOW", "1m"); err != nil {
		return nil, fmt.Errorf("invalid AUTH_RATE_LIMIT_WINDOW: %w", err)
	}

	// Bootstrap admin account
	cfg.Admin = AdminConfig{
		Email:    getEnv("ADMIN_EMAIL", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
		Name:     getEnv("ADMIN_NAME", "Administrador"),
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvFloat returns a pointer to the parsed float value, or nil when the
// variable is unset or invalid.
func getEnvFloat(key string) *float64 {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
