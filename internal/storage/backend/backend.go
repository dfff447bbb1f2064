// Package backend opens the storage.Store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/TobiasBrasser/aquabalance/internal/config"
	"github.com/TobiasBrasser/aquabalance/internal/storage"
	"github.com/TobiasBrasser/aquabalance/internal/storage/memory"
	"github.com/TobiasBrasser/aquabalance/internal/storage/redis"
	"github.com/TobiasBrasser/aquabalance/internal/storage/sqlite"
)

// Open returns the configured backend. The caller owns the store and must
// Close it.
func Open(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case "sqlite", "":
		return sqlite.New(cfg.Path)
	case "redis":
		return redis.New(ctx, cfg.Redis)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
