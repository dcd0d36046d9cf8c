package mealservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/FluffyKas/cooking-helper/server/internal/api"
	"github.com/FluffyKas/cooking-helper/server/internal/auth"
	"github.com/FluffyKas/cooking-helper/server/internal/config"
	"github.com/FluffyKas/cooking-helper/server/internal/factory"
	"github.com/FluffyKas/cooking-helper/server/internal/health"
	"github.com/FluffyKas/cooking-helper/server/internal/labelcache"
	"github.com/FluffyKas/cooking-helper/server/internal/logger"
	"github.com/FluffyKas/cooking-helper/server/internal/nutrition"
	"github.com/FluffyKas/cooking-helper/server/internal/services"
	"github.com/FluffyKas/cooking-helper/server/internal/store"
)

// Run starts the meal service HTTP server and blocks until shutdown or error.
func Run() error {
	cfg, err := config.New()
	if err != nil {
		bootLog := logger.New("meal-service", "unknown")
		bootLog.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	log := logger.New("meal-service", string(cfg.Environment))

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("http_port", cfg.HTTPPort).
		Bool("nutrition_enabled", cfg.NutritionEnabled()).
		Msg("Meal service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	deps, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}

	// Start health checkers before building the router so /api/health reports them
	svcHealth := startHealthCheckers(ctx, cfg, log, deps)

	router := buildRouter(cfg, log, deps, svcHealth.IsHealthy)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, api.CORS(cfg.CORSAllowedOrigins, router))
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

type dependencies struct {
	store     store.Store
	cache     labelcache.Cache
	estimator nutrition.Estimator
	issuer    *auth.TokenIssuer
}

// initDependencies constructs required components and enforces fail-fast on missing deps.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dependencies, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, err
	}

	cache, err := factory.NewLabelCache(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Label cache unavailable")
		return nil, err
	}

	return &dependencies{
		store:     st,
		cache:     cache,
		estimator: factory.NewEstimator(cfg, log),
		issuer:    auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
	}, nil
}

// buildRouter wires services into the HTTP layer.
func buildRouter(cfg *config.Config, log zerolog.Logger, d *dependencies, isHealthy func() bool) http.Handler {
	accounts := services.NewAccountService(d.store, d.issuer, log)
	if cfg.IsDevMode() {
		// the dev key resolves to a fixed user; make sure it exists
		if err := accounts.EnsureUser(context.Background(), auth.LocalDevUserID, auth.LocalDevEmail); err != nil {
			log.Warn().Err(err).Msg("could not provision local dev user")
		}
	}

	return api.NewRouter(api.Deps{
		Meals:      services.NewMealService(d.store, d.cache, log),
		Favorites:  services.NewFavoriteService(d.store),
		Accounts:   accounts,
		Nutrition:  services.NewNutritionService(d.estimator),
		Authorizer: auth.NewAuthorizer(cfg.IsDevMode(), d.issuer),
		Limiter:    api.NewClientLimiter(cfg.NutritionRatePerMinute, cfg.TrustedProxyPrefixes()...),
		IsHealthy:  isHealthy,
		Log:        log,
	})
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, d *dependencies) *health.ServiceHealthChecker {
	var checkers []health.HealthChecker
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(d.store, log, probeTimeout)
	go storeChecker.Start(ctx, interval)
	checkers = append(checkers, storeChecker)

	if p, ok := d.cache.(health.HealthPinger); ok {
		cacheChecker := health.NewPingChecker("label-cache", p, log, probeTimeout)
		go cacheChecker.Start(ctx, interval)
		checkers = append(checkers, cacheChecker)
	}

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// nutrition estimates wait on an upstream model
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds (down: %s)", timeoutSeconds, strings.Join(svcHealth.Down(), ", "))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
