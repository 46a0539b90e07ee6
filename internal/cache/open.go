// ABOUTME: Builds the configured cache store
// ABOUTME: Selects memory, sqlite or redis from the loaded configuration

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/config"
)

// Open returns the store selected by cfg.CacheBackend
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.CacheBackend {
	case config.CacheMemory, "":
		return NewMemory(time.Minute), nil
	case config.CacheSQLite:
		return NewSQLite(cfg.CachePath)
	case config.CacheRedis:
		return NewRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
