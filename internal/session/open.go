package session

import (
	"context"
	"fmt"

	"todocli/internal/config"
)

// OpenStore returns the Store selected by cfg.Store.Driver.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case config.StoreFile, "":
		return NewFileStore(cfg.SessionPath()), nil
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreRedis:
		r := cfg.Store.Redis
		return NewRedisStore(ctx, RedisConfig{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			Prefix:   r.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}
