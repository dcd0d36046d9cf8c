package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/FluffyKas/cooking-helper/client/internal/api"
	"github.com/FluffyKas/cooking-helper/client/internal/job"
	"github.com/FluffyKas/cooking-helper/client/internal/shardqueue"
)

// DevAPIKey is the fixed bearer token a meal-service running in the
// development environment accepts for its local dev user.
const DevAPIKey = "sk_local_cooking_helper_dev_key"

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

type Client struct {
	baseURL string
	http    *http.Client
	exec    executor
	apiKey  string // bearer token; empty means anonymous (public routes only)

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for the meal-service at baseURL. apiKey is sent as
// a bearer token on every request; pass "" to use only the public routes.
// Additional options can be provided via functional arguments.
func New(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}

	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}
	if c.exec == nil {
		c.exec = newDefaultExecutor()
	}

	c.wrapTransportWithAPIKey()

	return c
}

// NewWithDevMode constructs a Client authenticated as the local dev user.
// This only works against a service running in the development environment.
func NewWithDevMode(baseURL string, opts ...Option) *Client {
	return New(baseURL, DevAPIKey, opts...)
}

// wrapTransportWithAPIKey wraps the HTTP client's transport to automatically
// add the Authorization header to all requests using the configured API key.
func (c *Client) wrapTransportWithAPIKey() {
	if c.apiKey == "" {
		return
	}
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &apiKeyTransport{
		base:   baseTransport,
		apiKey: c.apiKey,
	}
}

// apiKeyTransport wraps an http.RoundTripper to add the Authorization header.
type apiKeyTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+t.apiKey)
	return t.base.RoundTrip(cloned)
}

// Close stops the background executor after draining queued favorites
// writes. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	if c.exec != nil {
		c.exec.Stop()
	}
	return nil
}

// AwaitConsistency blocks until all previously dispatched favorites writes for
// mealID have settled.
func (c *Client) AwaitConsistency(ctx context.Context, mealID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.exec.Barrier(ctx, mealID)
}

// Dispatch runs fn on the shard executor keyed by key: FIFO per key, bounded
// retries with exponential backoff for recoverable errors, no retry for
// irrecoverable ones. onComplete receives the settled result exactly once,
// unless Dispatch itself returns an error, in which case fn never runs.
func (c *Client) Dispatch(ctx context.Context, key string, fn func(context.Context) error, onComplete func(error)) error {
	shard := job.ShardLabel(key)
	tracked := job.NewTracked(fn, func(err error) {
		if err != nil {
			dispatchFailedTotal.WithLabelValues(shard).Inc()
		}
		if onComplete != nil {
			onComplete(err)
		}
	})
	if err := c.exec.Submit(ctx, key, tracked); err != nil {
		if isQueueFull(err) {
			return ErrBackPressure
		}
		return err
	}
	dispatchedTotal.WithLabelValues(shard).Inc()
	return nil
}

// newDefaultExecutor constructs the shardqueue executor from SQ_* environment
// tunables, falling back to defaults when they cannot be parsed.
func newDefaultExecutor() *shardqueue.ShardExecutor {
	cfg, err := shardqueue.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("invalid SQ_* configuration, using executor defaults")
		cfg = shardqueue.Config{}
	}
	cfg.ErrorHandler = func(err error) {
		log.Debug().Err(err).Msg("dispatched job failed")
	}
	return shardqueue.NewShardExecutor(cfg)
}

// --------------------------------------------------------------------
// Meal operations - delegated to internal/api
// --------------------------------------------------------------------

// ListMeals fetches one page of meals, newest first. It satisfies
// listing.PageFetcher.
func (c *Client) ListMeals(ctx context.Context, limit, offset int) (*MealPage, error) {
	return api.ListMeals(ctx, c.http, c.baseURL, limit, offset)
}

// GetMeal retrieves one meal; ErrNotFound when it no longer exists.
func (c *Client) GetMeal(ctx context.Context, mealID string) (*Meal, error) {
	return api.GetMeal(ctx, c.http, c.baseURL, mealID)
}

// CreateMeal stores a new meal owned by the caller.
func (c *Client) CreateMeal(ctx context.Context, meal Meal) (*Meal, error) {
	return api.CreateMeal(ctx, c.http, c.baseURL, meal)
}

// UpdateMeal replaces the mutable fields of a meal the caller owns.
func (c *Client) UpdateMeal(ctx context.Context, mealID string, meal Meal) (*Meal, error) {
	return api.UpdateMeal(ctx, c.http, c.baseURL, mealID, meal)
}

// DeleteMeal removes a meal the caller owns. Backend returns 204 No Content on success.
func (c *Client) DeleteMeal(ctx context.Context, mealID string) error {
	return api.DeleteMeal(ctx, c.http, c.baseURL, mealID)
}

// ListLabels returns the sorted set of labels in use.
func (c *Client) ListLabels(ctx context.Context) ([]string, error) {
	return api.ListLabels(ctx, c.http, c.baseURL)
}

// --------------------------------------------------------------------
// Favorites operations - synchronous; favorites.Sync dispatches them
// through the shard executor
// --------------------------------------------------------------------

// ListFavorites returns the caller's favorite meal ids.
func (c *Client) ListFavorites(ctx context.Context) ([]string, error) {
	return api.ListFavorites(ctx, c.http, c.baseURL)
}

// ListFavoriteMeals returns the caller's favorite meals, newest favorite first.
func (c *Client) ListFavoriteMeals(ctx context.Context) ([]Meal, error) {
	return api.ListFavoriteMeals(ctx, c.http, c.baseURL)
}

// AddFavorite marks mealID as a favorite. Adding twice is not an error.
func (c *Client) AddFavorite(ctx context.Context, mealID string) error {
	return api.AddFavorite(ctx, c.http, c.baseURL, mealID)
}

// RemoveFavorite unmarks mealID. Removing an absent favorite is not an error.
func (c *Client) RemoveFavorite(ctx context.Context, mealID string) error {
	return api.RemoveFavorite(ctx, c.http, c.baseURL, mealID)
}

// --------------------------------------------------------------------
// Nutrition, accounts and health
// --------------------------------------------------------------------

// EstimateNutrition returns whole-recipe macro totals for ingredients. Use
// Nutrition.PerServing before storing them on a meal.
func (c *Client) EstimateNutrition(ctx context.Context, ingredients []string) (*Nutrition, error) {
	return api.EstimateNutrition(ctx, c.http, c.baseURL, ingredients)
}

// Signup creates an account. The returned token can be passed to New.
func (c *Client) Signup(ctx context.Context, email, password string) (*Session, error) {
	return api.Signup(ctx, c.http, c.baseURL, Credentials{Email: email, Password: password})
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return api.Login(ctx, c.http, c.baseURL, Credentials{Email: email, Password: password})
}

// DeleteAccount removes the caller's favorites and account. Authored meals are kept.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return api.DeleteAccount(ctx, c.http, c.baseURL)
}

// Health reports the service's aggregated health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return api.Health(ctx, c.http, c.baseURL)
}
