package http

import (
	"context"
	"errors"
	"fmt"
	"os"

	"usertodos/internal/adapter/database/memory"
	"usertodos/internal/adapter/database/postgres"
	pgrepository "usertodos/internal/adapter/database/postgres/repository"
	"usertodos/internal/adapter/database/redis"
	"usertodos/internal/adapter/database/sqlite"
	"usertodos/internal/adapter/database/sqlite/repository"
	"usertodos/internal/adapter/http/handler"
	"usertodos/internal/adapter/http/validation"
	"usertodos/internal/core/port"
	"usertodos/internal/core/security"
	"usertodos/internal/core/service"
	"usertodos/internal/core/telemetry"
	"usertodos/pkg/config"

	"github.com/rs/zerolog"
)

type Container struct {
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository
	Cache    port.CacheRepository

	AuthService *service.AuthService
	TodoService *service.TodoService

	AuthHandler *handler.AuthHandler
	TodoHandler *handler.TodoHandler

	closers []func() error
}

// NewContainer opens the configured store and cache and wires services and
// handlers on top of them. probe and metrics may be nil.
func NewContainer(ctx context.Context, cfg *config.Config, probe port.Telemetry, metrics *telemetry.AppMetrics) (*Container, error) {
	if probe == nil {
		probe = telemetry.NewNoOpProbe()
	}

	c := &Container{}

	if err := c.openStore(ctx, cfg, probe); err != nil {
		return nil, err
	}

	if err := c.openCache(ctx, cfg, metrics); err != nil {
		c.Close()
		return nil, err
	}

	tokens, err := security.NewJWTIssuer(cfg.JWTSecret, security.WithTTL(cfg.TokenTTL))

	if err != nil {
		c.Close()
		return nil, err
	}

	validator, err := validation.New()

	if err != nil {
		c.Close()
		return nil, err
	}

	authOpts := []service.AuthOption{service.WithAuthTelemetry(probe)}

	if c.Cache != nil {
		authOpts = append(authOpts, service.WithIdentityCache(c.Cache, cfg.Cache.TTL))
	}

	c.AuthService = service.NewAuthService(c.UserRepo, security.NewBcryptHasher(), tokens, authOpts...)
	c.TodoService = service.NewTodoService(c.TodoRepo, probe)

	c.AuthHandler = handler.NewAuthHandler(c.AuthService, validator)
	c.TodoHandler = handler.NewTodoHandler(c.TodoService, validator)

	return c, nil
}

func (c *Container) openStore(ctx context.Context, cfg *config.Config, probe port.Telemetry) error {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.URL)

		if err != nil {
			return err
		}

		c.UserRepo = pgrepository.NewUserRepository(db, probe)
		c.TodoRepo = pgrepository.NewTodoRepository(db, probe)
		c.closers = append(c.closers, func() error {
			db.Close()
			return nil
		})
	case config.DriverSQLite:
		sqlLogger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "sql").Logger()

		db, err := sqlite.Open(sqlite.Options{
			Path:       cfg.Database.Path,
			LogQueries: cfg.Database.LogQueries,
			Logger:     &sqlLogger,
		})

		if err != nil {
			return err
		}

		c.UserRepo = repository.NewUserRepository(db, probe)
		c.TodoRepo = repository.NewTodoRepository(db, probe)
		c.closers = append(c.closers, db.Close)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	return nil
}

func (c *Container) openCache(ctx context.Context, cfg *config.Config, metrics *telemetry.AppMetrics) error {
	switch cfg.Cache.Driver {
	case config.CacheNone, "":
		return nil
	case config.CacheMemory:
		c.Cache = memory.NewMemoryRepository(cfg.Cache.TTL)
	case config.CacheRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})

		if err != nil {
			return err
		}

		c.Cache = redis.NewRedisRepository(client)
	default:
		return fmt.Errorf("unsupported cache driver %q", cfg.Cache.Driver)
	}

	c.closers = append(c.closers, c.Cache.Close)

	if metrics != nil {
		c.Cache = telemetry.NewMeteredCache(cfg.Cache.Driver, c.Cache, metrics)
	}

	return nil
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	var errs []error

	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}

	c.closers = nil

	return errors.Join(errs...)
}
