// Package health tracks whether the meal service's dependencies answer.
// Checkers probe in the background and cache the outcome so /api/health
// never blocks on a dependency.
package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const defaultProbeTimeout = 2 * time.Second

// HealthChecker is implemented by component-level checkers (store, label cache).
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// HealthPinger is implemented by components that can answer a cheap liveness
// probe. HealthPing returns nil when the component is usable.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// every runs fn now and then on each tick until ctx is done.
func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for fn(); ; {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// ServiceHealthChecker is healthy when every component checker is.
type ServiceHealthChecker struct {
	deps    []HealthChecker
	log     zerolog.Logger
	healthy atomic.Bool

	mu   sync.Mutex
	down []string
}

func NewServiceHealthChecker(log zerolog.Logger, deps ...HealthChecker) *ServiceHealthChecker {
	return &ServiceHealthChecker{deps: deps, log: log}
}

// IsHealthy returns the last evaluated service health.
func (h *ServiceHealthChecker) IsHealthy() bool { return h.healthy.Load() }

// Down lists the components that were unhealthy at the last evaluation.
func (h *ServiceHealthChecker) Down() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.down...)
}

// Start re-evaluates the component flags on every interval and logs
// transitions.
func (h *ServiceHealthChecker) Start(ctx context.Context, interval time.Duration) {
	first := true
	every(ctx, interval, func() {
		var down []string
		for _, c := range h.deps {
			if !c.IsHealthy() {
				down = append(down, c.Name())
			}
		}
		h.mu.Lock()
		h.down = down
		h.mu.Unlock()

		up := len(down) == 0
		if prev := h.healthy.Swap(up); prev == up && !first {
			return
		}
		first = false
		if up {
			h.log.Info().Msg("service health: UP")
		} else {
			h.log.Error().Strs("down", down).Msg("service health: DOWN")
		}
	})
}

// PingChecker probes a HealthPinger on an interval and caches the result.
// It reports unhealthy until the first probe succeeds.
type PingChecker struct {
	name         string
	pinger       HealthPinger
	log          zerolog.Logger
	probeTimeout time.Duration
	healthy      atomic.Bool
}

func NewPingChecker(name string, p HealthPinger, log zerolog.Logger, probeTimeout time.Duration) *PingChecker {
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	return &PingChecker{name: name, pinger: p, log: log, probeTimeout: probeTimeout}
}

func (c *PingChecker) Name() string    { return c.name }
func (c *PingChecker) IsHealthy() bool { return c.healthy.Load() }

func (c *PingChecker) Start(ctx context.Context, interval time.Duration) {
	every(ctx, interval, func() { c.Probe(ctx) })
}

// Probe runs one ping bounded by the probe timeout and records the outcome.
func (c *PingChecker) Probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	err := c.pinger.HealthPing(probeCtx)
	c.healthy.Store(err == nil)
	if err != nil {
		c.log.Error().Stack().Str("checker", c.name).Err(err).Msg("health check failed")
		return false
	}
	return true
}
