package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/FluffyKas/cooking-helper/server/internal/config"
	storepkg "github.com/FluffyKas/cooking-helper/server/internal/store"
	storemongo "github.com/FluffyKas/cooking-helper/server/internal/store/mongodb"
	storepg "github.com/FluffyKas/cooking-helper/server/internal/store/postgres"
	storesqlite "github.com/FluffyKas/cooking-helper/server/internal/store/sqlite"
)

// NewStore returns the store.Store selected by cfg.DBDriver and applies its schema.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	bootstrapTimeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
	if bootstrapTimeout <= 0 {
		bootstrapTimeout = 5 * time.Second
	}
	bootstrapCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	switch cfg.DBDriver {
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("COOKING_HELPER_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := storepg.Migrate(bootstrapCtx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.DBDriver).Msg("store ready")
		return storepg.NewWithDB(db), nil

	case "sqlite":
		db, err := storesqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := storesqlite.Migrate(bootstrapCtx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.DBDriver).Str("path", cfg.SQLitePath).Msg("store ready")
		return storesqlite.NewWithDB(db), nil

	case "mongo":
		client, err := storemongo.Connect(bootstrapCtx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		st, err := storemongo.New(bootstrapCtx, client, cfg.MongoDatabase)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info().Str("driver", cfg.DBDriver).Str("database", cfg.MongoDatabase).Msg("store ready")
		return st, nil
	}
	return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
}
