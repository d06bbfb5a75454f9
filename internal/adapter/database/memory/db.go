package memory

import (
	"context"
	"time"

	"usertodos/internal/core/port"

	gocache "github.com/patrickmn/go-cache"
)

const defaultCleanupInterval = 5 * time.Minute

type memoryRepository struct {
	cache *gocache.Cache
}

func NewMemoryRepository(defaultTTL time.Duration) port.CacheRepository {
	return &memoryRepository{
		cache: gocache.New(defaultTTL, defaultCleanupInterval),
	}
}

func (c *memoryRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.cache.Set(key, stored, ttl)

	return nil
}

func (c *memoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := c.cache.Get(key)

	if !found {
		return nil, port.ErrCacheMiss
	}

	raw, ok := value.([]byte)

	if !ok {
		return nil, port.ErrCacheMiss
	}

	return raw, nil
}

func (c *memoryRepository) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)

	return nil
}

func (c *memoryRepository) Close() error {
	c.cache.Flush()

	return nil
}
