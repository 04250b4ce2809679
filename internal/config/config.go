package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name           string        `env:"APP_NAME" envDefault:"employee-directory"`
	Env            string        `env:"APP_ENV" envDefault:"development"`
	Host           string        `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port           string        `env:"APP_PORT" envDefault:"8080"`
	Version        string        `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
}

// PostgresConfig holds DB connection values. An empty DSN selects the
// in-memory store.
type PostgresConfig struct {
	DSN             string        `env:"POSTGRES_DSN"`
	MaxConns        int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations   bool          `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	ConnMaxIdleTime time.Duration `env:"POSTGRES_CONN_MAX_IDLE" envDefault:"30s"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFE" envDefault:"5m"`
	// QueryTimeout bounds every storage call made on behalf of a request.
	QueryTimeout time.Duration `env:"POSTGRES_QUERY_TIMEOUT" envDefault:"5s"`
}

// RedisConfig holds Redis connection values. An empty address disables the page cache.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// CacheConfig tunes the listing page cache.
type CacheConfig struct {
	PageTTL   time.Duration `env:"CACHE_PAGE_TTL" envDefault:"30s"`
	KeyPrefix string        `env:"CACHE_KEY_PREFIX" envDefault:"employees"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret      string        `env:"AUTH_JWT_SECRET" envDefault:"dev-secret"`
	AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"1h"`
	BcryptCost     int           `env:"AUTH_BCRYPT_COST" envDefault:"12"`
	// Bootstrap admin account created at start-up when both values are set.
	AdminEmail    string `env:"AUTH_ADMIN_EMAIL"`
	AdminPassword string `env:"AUTH_ADMIN_PASSWORD"`
	AdminName     string `env:"AUTH_ADMIN_NAME" envDefault:"Administrator"`
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads configuration from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET must not be empty")
	}
	if cfg.App.Env == "production" && cfg.Auth.JWTSecret == "dev-secret" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET must be set in production")
	}
	return &cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// BootstrapAdmin reports whether an admin account should be ensured at start-up.
func (a AuthConfig) BootstrapAdmin() bool {
	return a.AdminEmail != "" && a.AdminPassword != ""
}
