package shardqueue

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Shards != 4 || cfg.QueueSize != 128 || cfg.EnqueueTimeout != 100*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxAttempts != 8 || cfg.BaseBackoff != 100*time.Millisecond || cfg.MaxInterval != 20*time.Second {
		t.Fatalf("unexpected retry defaults: %+v", cfg)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SQ_SHARDS", "8")
	t.Setenv("SQ_QUEUE_SIZE", "256")
	t.Setenv("SQ_MAX_ATTEMPTS", "2")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Shards != 8 || cfg.QueueSize != 256 || cfg.MaxAttempts != 2 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestConfig_WithDefaultsKeepsExplicitValues(t *testing.T) {
	t.Parallel()
	cfg := Config{Shards: 2, BaseBackoff: time.Second}.withDefaults()
	if cfg.Shards != 2 || cfg.BaseBackoff != time.Second {
		t.Fatalf("explicit values overwritten: %+v", cfg)
	}
	if cfg.QueueSize != 128 || cfg.MaxAttempts != 8 {
		t.Fatalf("zero values not defaulted: %+v", cfg)
	}
}
