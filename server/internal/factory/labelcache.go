package factory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/FluffyKas/cooking-helper/server/internal/config"
	"github.com/FluffyKas/cooking-helper/server/internal/labelcache"
)

// NewLabelCache returns a Redis-backed cache when REDIS_URL is set and an
// in-process one otherwise. A configured but unreachable Redis is an error.
func NewLabelCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (labelcache.Cache, error) {
	if cfg.RedisURL == "" {
		log.Info().Dur("ttl", cfg.LabelsCacheTTL).Msg("label cache: in-process")
		return labelcache.NewMemory(cfg.LabelsCacheTTL), nil
	}
	c, err := labelcache.NewRedis(ctx, cfg.RedisURL, cfg.LabelsCacheTTL)
	if err != nil {
		return nil, err
	}
	log.Info().Dur("ttl", cfg.LabelsCacheTTL).Msg("label cache: redis")
	return c, nil
}
