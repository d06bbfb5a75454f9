package config

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/sethvargo/go-envconfig"
)

func TestLoadDefaults(t *testing.T) {
	RegisterTestingT(t)

	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
	}))

	Expect(err).To(BeNil())
	Expect(cfg.Port).To(Equal("8080"))
	Expect(cfg.TokenTTL).To(Equal(30 * time.Minute))
	Expect(cfg.Database.Driver).To(Equal(DriverSQLite))
	Expect(cfg.Database.Path).To(Equal("todos.db"))
	Expect(cfg.Cache.Driver).To(Equal(CacheMemory))
	Expect(cfg.Cache.TTL).To(Equal(time.Minute))
	Expect(cfg.Telemetry.ServiceName).To(Equal("usertodos"))
	Expect(cfg.Telemetry.OTLPEndpoint).To(BeEmpty())
	Expect(cfg.IsDevelopment()).To(BeTrue())
}

func TestLoadRequiresSecret(t *testing.T) {
	RegisterTestingT(t)

	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))

	Expect(err).NotTo(BeNil())
	Expect(err.Error()).To(ContainSubstring("JWT_SECRET"))
}

func TestLoadOverrides(t *testing.T) {
	RegisterTestingT(t)

	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "secret",
		"TOKEN_TTL":       "5m",
		"DATABASE_DRIVER": "postgres",
		"DATABASE_URL":    "postgres://localhost/todos",
		"CACHE_DRIVER":    "redis",
		"REDIS_DB":        "2",
	}))

	Expect(err).To(BeNil())
	Expect(cfg.TokenTTL).To(Equal(5 * time.Minute))
	Expect(cfg.Database.Driver).To(Equal(DriverPostgres))
	Expect(cfg.Cache.RedisDB).To(Equal(2))
}

func TestValidateRejectsUnknownDrivers(t *testing.T) {
	RegisterTestingT(t)

	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "secret",
		"DATABASE_DRIVER": "mysql",
		"CACHE_DRIVER":    "memcached",
	}))

	Expect(err).NotTo(BeNil())
	Expect(err.Error()).To(ContainSubstring("DATABASE_DRIVER"))
	Expect(err.Error()).To(ContainSubstring("CACHE_DRIVER"))
}

func TestPostgresRequiresURL(t *testing.T) {
	RegisterTestingT(t)

	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "secret",
		"DATABASE_DRIVER": "postgres",
	}))

	Expect(err).NotTo(BeNil())
	Expect(err.Error()).To(ContainSubstring("DATABASE_URL"))
}
