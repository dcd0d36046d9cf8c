package config

import (
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the meal service.
// Environment variables are parsed with the COOKING_HELPER_ prefix.
type Config struct {
	// Build target selects the high-level environment: local or cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// DBDriver is derived from BuildTarget when "auto": sqlite for local, postgres for cloud.
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort           int      `envconfig:"HTTP_PORT" default:"8080"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	// TrustedProxies lists the IPs or CIDRs of reverse proxies whose
	// X-Forwarded-For header is believed. Empty means clients connect directly.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES" default:""`
	trustedProxies []netip.Prefix

	// Storage
	PostgresDSN   string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath    string `envconfig:"SQLITE_PATH" default:""`
	MongoURI      string `envconfig:"MONGO_URI" default:""`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"cooking_helper"`

	// Labels cache; empty RedisURL disables it
	RedisURL       string        `envconfig:"REDIS_URL" default:""`
	LabelsCacheTTL time.Duration `envconfig:"LABELS_CACHE_TTL" default:"10m"`

	// Nutrition estimator
	OpenAIAPIKey           string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL          string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com"`
	OpenAIModel            string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	NutritionRatePerMinute int    `envconfig:"NUTRITION_RATE_PER_MINUTE" default:"10"`

	// Auth
	JWTSecret string        `envconfig:"AUTH_JWT_SECRET" default:""`
	TokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"168h"`

	// Health
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
	BootstrapTimeoutSeconds   int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"5"`
}

// devJWTSecret signs tokens when no secret is configured outside production.
const devJWTSecret = "cooking-helper-dev-secret"

// ResolveDefaults validates BuildTarget and derives DBDriver and paths when left on "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"postgres": true, "sqlite": true, "mongo": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	if c.DBDriver == "sqlite" && c.SQLitePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.SQLitePath = filepath.Join(home, ".cooking-helper", "meals.db")
	}

	prefixes, err := parseProxies(c.TrustedProxies)
	if err != nil {
		return err
	}
	c.trustedProxies = prefixes

	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("AUTH_JWT_SECRET is required in production")
		}
		c.JWTSecret = devJWTSecret
	}
	return nil
}

// New creates a new Config from the environment. A .env file in the working
// directory is loaded first when present.
// Example: COOKING_HELPER_DB_DRIVER=postgres, COOKING_HELPER_HTTP_PORT=9000
func New() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("COOKING_HELPER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("mongo_uri_present", cfg.MongoURI != "").
		Bool("redis_enabled", cfg.RedisURL != "").
		Bool("nutrition_enabled", cfg.NutritionEnabled()).
		Str("openai_model", cfg.OpenAIModel).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config backed by an in-memory SQLite database.
func NewForTesting() *Config {
	return &Config{
		BuildTarget:               "local",
		DBDriver:                  "sqlite",
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		CORSAllowedOrigins:        []string{"*"},
		SQLitePath:                ":memory:",
		MongoDatabase:             "cooking_helper_test",
		LabelsCacheTTL:            time.Minute,
		OpenAIBaseURL:             "http://localhost:0",
		OpenAIModel:               "gpt-4o-mini",
		NutritionRatePerMinute:    60,
		JWTSecret:                 "test-secret",
		TokenTTL:                  time.Hour,
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
		BootstrapTimeoutSeconds:   1,
	}
}

// IsDevMode reports whether the local development API key is honoured.
func (c *Config) IsDevMode() bool {
	return c.Environment == EnvDevelopment
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// TrustedProxyPrefixes returns TrustedProxies as parsed by ResolveDefaults.
func (c *Config) TrustedProxyPrefixes() []netip.Prefix {
	return c.trustedProxies
}

// parseProxies accepts bare addresses as single-host prefixes.
func parseProxies(entries []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", e, err)
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", e, err)
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

// NutritionEnabled reports whether an OpenAI key is configured.
func (c *Config) NutritionEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
