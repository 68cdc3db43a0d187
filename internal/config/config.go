package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Audit    AuditConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSOrigins           string
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

// AuthConfig defines token issuance and verification parameters.
//
// RefreshRequireFreshToken controls whether refresh rejects tokens past their
// expiration. The default (false) accepts any token bearing a valid signature,
// which gives callers an unbounded sliding session; flagged for product review
// before tightening.
type AuthConfig struct {
	JWTSecret                string
	Issuer                   string
	Audience                 string
	TokenTTLHours            int
	BcryptCost               int
	RefreshRequireFreshToken bool
	ValidateIssuerAudience   bool
}

// AuditConfig controls the auth event audit trail.
type AuditConfig struct {
	LastSeenTTLHours int
}

// ErrMissingAuthConfig indicates required token settings were absent at startup.
var ErrMissingAuthConfig = errors.New("AUTH_JWT_SECRET, AUTH_JWT_ISSUER and AUTH_JWT_AUDIENCE must be set")

// Load reads configuration from environment variables, applying defaults where
// possible. Token signing settings have no defaults: a service that cannot issue
// verifiable tokens must fail here, not per request.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "stock-auth-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSOrigins:           getEnv("HTTP_CORS_ORIGINS", "http://localhost:3000,http://localhost:4200,http://localhost:5173,http://localhost:8080"),
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
			JWTSecret:                os.Getenv("AUTH_JWT_SECRET"),
			Issuer:                   os.Getenv("AUTH_JWT_ISSUER"),
			Audience:                 os.Getenv("AUTH_JWT_AUDIENCE"),
			TokenTTLHours:            getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 24),
			BcryptCost:               getEnvAsInt("AUTH_BCRYPT_COST", 12),
			RefreshRequireFreshToken: getEnvAsBool("AUTH_REFRESH_REQUIRE_FRESH_TOKEN", false),
			ValidateIssuerAudience:   getEnvAsBool("AUTH_VALIDATE_ISSUER_AUDIENCE", true),
		},
		Audit: AuditConfig{
			LastSeenTTLHours: getEnvAsInt("AUDIT_LAST_SEEN_TTL_HOURS", 72),
		},
	}

	if cfg.Auth.JWTSecret == "" || cfg.Auth.Issuer == "" || cfg.Auth.Audience == "" {
		return nil, ErrMissingAuthConfig
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

// TokenTTL returns the token validity window.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.TokenTTLHours) * time.Hour
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
