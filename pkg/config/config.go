package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type Config struct {
	Port        string `env:"PORT,      default=8080"`
	Environment string `env:"APP_ENV,   default=development"`
	LogLevel    string `env:"LOG_LEVEL, default=info"`

	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=30m"`

	Database  DatabaseConfig
	Cache     CacheConfig
	Telemetry TelemetryConfig
}

type DatabaseConfig struct {
	Driver     string `env:"DATABASE_DRIVER, default=sqlite"`
	Path       string `env:"DATABASE_PATH,   default=todos.db"`
	URL        string `env:"DATABASE_URL"`
	LogQueries bool   `env:"DB_LOG_QUERIES,  default=false"`
}

type CacheConfig struct {
	Driver        string        `env:"CACHE_DRIVER,   default=memory"`
	TTL           time.Duration `env:"CACHE_TTL,      default=1m"`
	RedisAddr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB,       default=0"`
}

type TelemetryConfig struct {
	ServiceName    string `env:"SERVICE_NAME,    default=usertodos"`
	ServiceVersion string `env:"SERVICE_VERSION, default=dev"`
	MetricsPort    string `env:"METRICS_PORT,    default=9091"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT"`
	LokiURL        string `env:"LOKI_URL"`
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DATABASE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver))
	}

	switch c.Cache.Driver {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		errs = append(errs, fmt.Errorf("unsupported CACHE_DRIVER %q", c.Cache.Driver))
	}

	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
