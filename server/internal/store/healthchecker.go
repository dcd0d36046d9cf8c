package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/FluffyKas/cooking-helper/server/internal/health"
	"github.com/FluffyKas/cooking-helper/server/internal/model"
)

// healthProbeID never names a real meal; looking it up only proves the
// driver answers.
const healthProbeID = "__health_check__"

// Pinger adapts a Store to health.HealthPinger. Drivers that implement
// HealthPing themselves are used as is; others are probed with a meal
// lookup that is expected to miss.
func Pinger(s Store) health.HealthPinger {
	if p, ok := s.(health.HealthPinger); ok {
		return p
	}
	return lookupPinger{s}
}

type lookupPinger struct{ s Store }

func (p lookupPinger) HealthPing(ctx context.Context) error {
	if _, err := p.s.Meals().Get(ctx, healthProbeID); err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}
	return nil
}

// NewStoreHealthChecker returns a checker named "store" that starts
// unhealthy until its first successful probe.
func NewStoreHealthChecker(s Store, log zerolog.Logger, probeTimeout time.Duration) *health.PingChecker {
	return health.NewPingChecker("store", Pinger(s), log, probeTimeout)
}
