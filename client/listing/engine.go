// Package listing holds the client-side view of the meals table: a snapshot
// that grows one page at a time, filtered and sampled locally without
// re-fetching pages that are already loaded.
package listing

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/FluffyKas/cooking-helper/client/internal/types"
)

// Meal and Page are the SDK's wire types.
type (
	Meal = types.Meal
	Page = types.MealPage
)

const (
	DefaultPageSize        = 20
	DefaultProximityMargin = 3
)

// ErrLoadInFlight is returned by LoadMore when another fetch has not settled
// yet. The call is dropped, not queued.
var ErrLoadInFlight = errors.New("listing: load already in flight")

var errNilPage = errors.New("listing: fetcher returned no page")

// PageFetcher reads one offset/limit page of meals, newest first.
// *client.Client satisfies it.
type PageFetcher interface {
	ListMeals(ctx context.Context, limit, offset int) (*Page, error)
}

// Snapshot is a copy of the engine state.
type Snapshot struct {
	Meals   []Meal
	Total   int
	HasMore bool
	Offset  int
}

// Engine owns one listing snapshot. It is safe for concurrent use.
type Engine struct {
	fetcher  PageFetcher
	pageSize int
	margin   int
	log      zerolog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	mu      sync.Mutex
	meals   []Meal
	total   int
	hasMore bool
	offset  int
	loading bool
	gen     uint64 // bumped by Initialize so stale fetches are discarded
}

// Option configures an Engine.
type Option func(*Engine)

// WithPageSize sets how many meals LoadMore requests. Values below one are ignored.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// WithProximityMargin sets how many items before the end of the list the
// proximity trigger fires. Negative values are ignored.
func WithProximityMargin(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.margin = n
		}
	}
}

// WithRand sets the random source used by PickRandom. Tests pass a seeded one.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithLogger sets the engine's logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an empty engine reading pages from fetcher.
func New(fetcher PageFetcher, opts ...Option) *Engine {
	e := &Engine{
		fetcher:  fetcher,
		pageSize: DefaultPageSize,
		margin:   DefaultProximityMargin,
		log:      zerolog.Nop(),
		meals:    []Meal{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return e
}

// Initialize seeds the snapshot with a first page. No I/O. A fetch still in
// flight from before the call is discarded when it returns.
func (e *Engine) Initialize(firstPage []Meal, total int, hasMore bool) {
	meals := make([]Meal, len(firstPage))
	copy(meals, firstPage)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.meals = meals
	e.total = total
	e.hasMore = hasMore
	e.offset = len(meals)
	e.gen++
}

// Refresh fetches the first page and initializes the snapshot with it.
func (e *Engine) Refresh(ctx context.Context) error {
	page, err := e.fetcher.ListMeals(ctx, e.pageSize, 0)
	if err == nil && page == nil {
		err = errNilPage
	}
	if err != nil {
		e.log.Warn().Err(err).Msg("first page fetch failed")
		return err
	}
	e.Initialize(page.Meals, page.Total, page.HasMore)
	return nil
}

// LoadMore fetches the page at the current offset and appends it. It is a
// no-op when there is nothing more to load and returns ErrLoadInFlight when
// another fetch is pending. On failure the snapshot is left unchanged and the
// error is returned; there is no retry.
func (e *Engine) LoadMore(ctx context.Context) error {
	e.mu.Lock()
	if !e.hasMore {
		e.mu.Unlock()
		return nil
	}
	if e.loading {
		e.mu.Unlock()
		return ErrLoadInFlight
	}
	offset, gen := e.claimLocked()
	e.mu.Unlock()

	return e.fetch(ctx, offset, gen)
}

// OnProximity reports that the end-of-list sentinel is distance items away.
// When within the proximity margin, with more to load and no fetch in flight,
// it starts exactly one fetch in the background and returns true. Triggers
// that arrive while a fetch is running are dropped.
func (e *Engine) OnProximity(ctx context.Context, distance int) bool {
	if distance > e.margin {
		return false
	}
	e.mu.Lock()
	if !e.hasMore || e.loading {
		e.mu.Unlock()
		return false
	}
	offset, gen := e.claimLocked()
	e.mu.Unlock()

	go func() {
		if err := e.fetch(ctx, offset, gen); err != nil {
			e.log.Debug().Err(err).Msg("proximity load failed")
		}
	}()
	return true
}

// claimLocked sets the in-flight guard. Caller holds e.mu.
func (e *Engine) claimLocked() (offset int, gen uint64) {
	e.loading = true
	return e.offset, e.gen
}

// fetch performs a claimed page fetch and releases the guard.
func (e *Engine) fetch(ctx context.Context, offset int, gen uint64) error {
	page, err := e.fetcher.ListMeals(ctx, e.pageSize, offset)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = false
	if err == nil && page == nil {
		err = errNilPage
	}
	if err != nil {
		e.log.Warn().Err(err).Int("offset", offset).Msg("load more failed")
		return err
	}
	if gen != e.gen {
		e.log.Debug().Int("offset", offset).Msg("discarding page for a reinitialized snapshot")
		return nil
	}
	// Offset advances by what the store returned so short pages stay correct.
	// A total below the loaded count is trusted as-is; nothing is truncated.
	e.meals = append(e.meals, page.Meals...)
	e.offset += len(page.Meals)
	e.total = page.Total
	e.hasMore = page.HasMore
	return nil
}

// Loading reports whether a fetch is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// HasMore reports whether the store has meals beyond the snapshot.
func (e *Engine) HasMore() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasMore
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	meals := make([]Meal, len(e.meals))
	copy(meals, e.meals)
	return Snapshot{Meals: meals, Total: e.total, HasMore: e.hasMore, Offset: e.offset}
}
