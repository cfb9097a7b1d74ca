package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Storage      StorageConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitMB           int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// NotificationConfig holds notification endpoints for intake alerts.
type NotificationConfig struct {
	EmailFrom  string
	AdminEmail string
	WebhookURL string
}

// StorageConfig points at the S3-compatible bucket holding resumes.
type StorageConfig struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	UsePathStyle      bool
	MaxResumeMB       int
	PresignTTLMinutes int
}

// RateLimitConfig bounds requests per client IP in a fixed window.
type RateLimitConfig struct {
	Enabled       bool
	MaxRequests   int
	WindowSeconds int
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "homecare-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitMB:           getEnvAsInt("HTTP_BODY_LIMIT_MB", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             os.Getenv("AUTH_JWT_SECRET"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 24*60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			AdminEmail: os.Getenv("NOTIFY_ADMIN_EMAIL"),
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
		Storage: StorageConfig{
			Endpoint:          os.Getenv("STORAGE_ENDPOINT"),
			Region:            getEnv("STORAGE_REGION", "us-east-1"),
			Bucket:            os.Getenv("STORAGE_BUCKET"),
			AccessKeyID:       os.Getenv("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey:   os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
			UsePathStyle:      getEnvAsBool("STORAGE_USE_PATH_STYLE", true),
			MaxResumeMB:       getEnvAsInt("STORAGE_MAX_RESUME_MB", 5),
			PresignTTLMinutes: getEnvAsInt("STORAGE_PRESIGN_TTL_MINUTES", 15),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			MaxRequests:   getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 15*60),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.App.Env == "production" {
			return nil, fmt.Errorf("AUTH_JWT_SECRET is required in production")
		}
		cfg.Auth.JWTSecret = "dev-secret"
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Window returns the rate limit window.
func (r RateLimitConfig) Window() time.Duration {
	if r.WindowSeconds <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(r.WindowSeconds) * time.Second
}

// MaxResumeBytes returns the upload limit for resumes.
func (s StorageConfig) MaxResumeBytes() int64 {
	return int64(s.MaxResumeMB) * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
