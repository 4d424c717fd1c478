package config

import (
	"fmt"
	"os"
	"strconv"
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
	Audit        AuditConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds pool and migration settings.
type PostgresConfig struct {
	DSN           string
	MaxConns      int32
	MinConns      int32
	ConnMaxIdle   time.Duration
	ConnMaxLife   time.Duration
	RunMigrations bool
	MigrationsDir string
}

// RedisConfig locates the audit gate cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines bearer token parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// NotificationConfig holds stub delivery endpoints and the worker pool size.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
	Workers    int
	QueueSize  int
}

// AuditConfig controls the audit gate.
type AuditConfig struct {
	CacheTTLSeconds int
	DefaultEnabled  bool
}

// Load reads the environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisCfg, err := loadRedis()
	if err != nil {
		return nil, err
	}

	return &Config{
		App:      loadApp(),
		Postgres: loadPostgres(),
		Redis:    redisCfg,
		Logger:   LoggerConfig{Level: envString("LOG_LEVEL", "info")},
		Auth: AuthConfig{
			JWTSecret:             envString("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: envInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		Notification: NotificationConfig{
			EmailFrom:  envString("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: envString("NOTIFY_WEBHOOK_URL", ""),
			Workers:    envInt("NOTIFY_WORKERS", 2),
			QueueSize:  envInt("NOTIFY_QUEUE_SIZE", 256),
		},
		Audit: AuditConfig{
			CacheTTLSeconds: envInt("AUDIT_CACHE_TTL_SECONDS", 60),
			DefaultEnabled:  envBool("AUDIT_DEFAULT_ENABLED", true),
		},
	}, nil
}

func loadApp() AppConfig {
	return AppConfig{
		Name:                  envString("APP_NAME", "itsm-routing"),
		Env:                   envString("APP_ENV", "development"),
		Host:                  envString("APP_HOST", "0.0.0.0"),
		Port:                  envString("APP_PORT", "8080"),
		Version:               envString("APP_VERSION", "dev"),
		RequestTimeoutSeconds: envInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
	}
}

func loadPostgres() PostgresConfig {
	return PostgresConfig{
		DSN:           os.Getenv("POSTGRES_DSN"),
		MaxConns:      int32(envInt("POSTGRES_MAX_CONNS", 10)),
		MinConns:      int32(envInt("POSTGRES_MIN_CONNS", 2)),
		ConnMaxIdle:   seconds(envInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
		ConnMaxLife:   seconds(envInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		RunMigrations: envBool("POSTGRES_RUN_MIGRATIONS", true),
		MigrationsDir: envString("POSTGRES_MIGRATIONS_DIR", "migrations"),
	}
}

// loadRedis is strict about REDIS_DB: silently talking to db 0 would
// share cache keys with another deployment.
func loadRedis() (RedisConfig, error) {
	db, err := strconv.Atoi(envString("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	return RedisConfig{
		Addr:     envString("REDIS_ADDR", "127.0.0.1:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return a.Host + ":" + a.Port
}

// RequestTimeout is zero when request deadlines are disabled.
func (a AppConfig) RequestTimeout() time.Duration {
	return seconds(a.RequestTimeoutSeconds)
}

// CacheTTL is zero when the audit gate cache is disabled.
func (a AuditConfig) CacheTTL() time.Duration {
	return seconds(a.CacheTTLSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func envString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	parsed, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return parsed
}
