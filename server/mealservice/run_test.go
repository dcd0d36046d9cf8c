package mealservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/FluffyKas/cooking-helper/server/internal/auth"
	"github.com/FluffyKas/cooking-helper/server/internal/config"
	"github.com/FluffyKas/cooking-helper/server/internal/health"
)

func TestCalculateStartupHealthTimeout(t *testing.T) {
	cases := map[int]int{1: 60, 30: 60, 45: 90}
	for in, want := range cases {
		if got := calculateStartupHealthTimeout(in); got != want {
			t.Fatalf("calculateStartupHealthTimeout(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestDependenciesAndHealth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.NewForTesting()
	cfg.Environment = config.EnvDevelopment
	log := zerolog.Nop()

	deps, err := initDependencies(ctx, cfg, log)
	if err != nil {
		t.Fatalf("initDependencies: %v", err)
	}
	svcHealth := startHealthCheckers(ctx, cfg, log, deps)
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		t.Fatalf("waitUntilHealthy: %v", err)
	}

	srv := httptest.NewServer(buildRouter(cfg, log, deps, svcHealth.IsHealthy))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "healthy" {
		t.Fatalf("expected healthy, got %v", body)
	}

	// dev user was provisioned during router construction
	if _, err := deps.store.Users().Get(ctx, auth.LocalDevUserID); err != nil {
		t.Fatalf("dev user missing: %v", err)
	}
}

func TestWaitUntilHealthy_ContextCancelled(t *testing.T) {
	cfg := config.NewForTesting()
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	// never started: the aggregate stays unhealthy
	svcHealth := health.NewServiceHealthChecker(zerolog.Nop())
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err == nil {
		t.Fatalf("expected error when context expires before health")
	}
}
