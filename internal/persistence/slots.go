package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/scalebit/admin-console/internal/config"
	"github.com/scalebit/admin-console/internal/repository"
)

// Backends is the opened token slot store plus whichever connections back it.
type Backends struct {
	Slots    repository.SlotStore
	Postgres *Postgres
	Redis    *Redis
}

// OpenSlotStore opens the backend selected by TOKEN_STORE.
func OpenSlotStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backends, error) {
	b := &Backends{}

	switch cfg.Store.Backend {
	case config.StoreMemory:
		b.Slots = repository.NewMemorySlotStore()
	case config.StoreFile:
		b.Slots = repository.NewFileSlotStore(cfg.Store.Dir)
	case config.StoreRedis:
		b.Redis = NewRedis(ctx, cfg.Redis, logger)
		b.Slots = b.Redis.SlotStore()
	case config.StorePostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres init: %w", err)
		}
		if !pg.Configured() {
			return nil, fmt.Errorf("postgres token store requires POSTGRES_DSN")
		}
		b.Postgres = pg
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.Pool, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		b.Slots = repository.NewPostgresSlotStore(pg.Pool)
	default:
		return nil, fmt.Errorf("unknown token store %q", cfg.Store.Backend)
	}

	logger.Info("token store ready", zap.String("backend", cfg.Store.Backend))
	return b, nil
}

// Close releases any connections.
func (b *Backends) Close() {
	if b == nil {
		return
	}
	b.Postgres.Close()
	b.Redis.Close()
}
