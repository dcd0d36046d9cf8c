package labelcache

import (
	"context"
	"os"
	"reflect"
	"testing"
	"time"
)

func TestMemoryCache_SetGetInvalidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemory(time.Minute)

	if _, ok, _ := c.Get(ctx); ok {
		t.Fatalf("expected miss on empty cache")
	}
	want := []string{"Dinner", "Quick"}
	if err := c.Set(ctx, want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx)
	if err != nil || !ok || !reflect.DeepEqual(got, want) {
		t.Fatalf("Get = %v ok=%v err=%v", got, ok, err)
	}
	// callers must not be able to mutate the cached slice
	got[0] = "mutated"
	again, _, _ := c.Get(ctx)
	if again[0] != "Dinner" {
		t.Fatalf("cached slice was aliased: %v", again)
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx); ok {
		t.Fatalf("expected miss after invalidate")
	}
}

func TestMemoryCache_Expires(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemory(time.Minute)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, []string{"Vegan"})
	now = now.Add(59 * time.Second)
	if _, ok, _ := c.Get(ctx); !ok {
		t.Fatalf("expected hit before ttl")
	}
	now = now.Add(time.Second)
	if _, ok, _ := c.Get(ctx); ok {
		t.Fatalf("expected miss at ttl")
	}
}

func TestRedisCache_RoundTrip(t *testing.T) {
	url := os.Getenv("COOKING_HELPER_REDIS_URL")
	if url == "" {
		t.Skip("COOKING_HELPER_REDIS_URL not set; skipping redis cache integration test")
	}
	ctx := context.Background()
	c, err := NewRedis(ctx, url, time.Minute)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer func() { _ = c.Close() }()

	_ = c.Invalidate(ctx)
	if _, ok, err := c.Get(ctx); err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}
	want := []string{"Breakfast", "Spicy"}
	if err := c.Set(ctx, want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx)
	if err != nil || !ok || !reflect.DeepEqual(got, want) {
		t.Fatalf("Get = %v ok=%v err=%v", got, ok, err)
	}
	if err := c.HealthPing(ctx); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}
	_ = c.Invalidate(ctx)
}
