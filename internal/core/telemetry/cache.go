package telemetry

import (
	"context"
	"errors"
	"time"

	"usertodos/internal/core/port"
)

type meteredCache struct {
	port.CacheRepository
	name    string
	metrics *AppMetrics
}

// NewMeteredCache counts hits and misses of Get on cache under the given
// cache label.
func NewMeteredCache(name string, cache port.CacheRepository, metrics *AppMetrics) port.CacheRepository {
	return &meteredCache{
		CacheRepository: cache,
		name:            name,
		metrics:         metrics,
	}
}

func (m *meteredCache) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()

	value, err := m.CacheRepository.Get(ctx, key)

	switch {
	case err == nil:
		m.metrics.RecordCacheHit(m.name)
	case errors.Is(err, port.ErrCacheMiss):
		m.metrics.RecordCacheMiss(m.name)
	}

	m.metrics.RecordDatabaseOperation("get", "cache:"+m.name, time.Since(start), ignoreMiss(err))

	return value, err
}

func ignoreMiss(err error) error {
	if errors.Is(err, port.ErrCacheMiss) {
		return nil
	}

	return err
}
