// Package favorites keeps a client-side copy of the caller's favorite meal
// ids with optimistic toggles that roll back when the store rejects them.
package favorites

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// ErrEmptyMealID is the rollback cause for a toggle without a meal id.
var ErrEmptyMealID = errors.New("favorites: meal id is required")

// Store is the remote favorites table for the authenticated user.
// *client.Client satisfies it.
type Store interface {
	ListFavorites(ctx context.Context) ([]string, error)
	AddFavorite(ctx context.Context, mealID string) error
	RemoveFavorite(ctx context.Context, mealID string) error
}

// Dispatcher runs fn asynchronously keyed by key and reports the settled
// result to onComplete exactly once. If Dispatch returns an error, fn never
// runs and onComplete is not called. *client.Client satisfies it with its
// shard executor.
type Dispatcher interface {
	Dispatch(ctx context.Context, key string, fn func(context.Context) error, onComplete func(error)) error
}

// goDispatcher runs each call on its own goroutine with no retries.
type goDispatcher struct{}

func (goDispatcher) Dispatch(ctx context.Context, _ string, fn func(context.Context) error, onComplete func(error)) error {
	go func() { onComplete(fn(ctx)) }()
	return nil
}

// Sync is the favorites membership set for one user session. Construct one
// per session; instances share nothing. It is safe for concurrent use.
type Sync struct {
	store    Store
	dispatch Dispatcher
	log      zerolog.Logger

	mu       sync.RWMutex
	ids      map[string]struct{}
	userID   string
	loads    int
	inFlight map[string]int
	pending  map[string]bool // latest target of each unsettled toggle in this epoch
	epoch    uint64          // bumped when the set is discarded so late rollbacks are ignored
}

// Option configures a Sync.
type Option func(*Sync)

// WithDispatcher overrides how store calls are scheduled.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Sync) {
		if d != nil {
			s.dispatch = d
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Sync) { s.log = l }
}

// New returns an empty Sync backed by store. When store also implements
// Dispatcher it schedules its own calls; otherwise each call runs on a fresh
// goroutine.
func New(store Store, opts ...Option) *Sync {
	s := &Sync{
		store:    store,
		dispatch: goDispatcher{},
		log:      zerolog.Nop(),
		ids:      map[string]struct{}{},
		inFlight: map[string]int{},
		pending:  map[string]bool{},
	}
	if d, ok := store.(Dispatcher); ok {
		s.dispatch = d
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the favorite ids of userID and replaces the set wholesale.
// Switching from one signed-in user to another discards the previous set
// first; the first Load of a session adopts whatever was toggled before it. On
// failure the set keeps its previous value, the error is logged, and loading
// still completes; the returned error is informational only. Toggles that
// have not settled yet keep their optimistic value on top of the loaded set.
func (s *Sync) Load(ctx context.Context, userID string) error {
	s.mu.Lock()
	if s.userID != "" && userID != s.userID {
		s.discardLocked()
	}
	s.userID = userID
	s.loads++
	epoch := s.epoch
	s.mu.Unlock()

	ids, err := s.store.ListFavorites(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads--
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("favorites load failed, keeping previous set")
		return err
	}
	if epoch != s.epoch {
		return nil
	}
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	s.ids = next
	for id, favorited := range s.pending {
		s.setLocked(id, favorited)
	}
	return nil
}

// Loading reports whether a Load is in progress.
func (s *Sync) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loads > 0
}

// IsFavorited reports membership from memory only.
func (s *Sync) IsFavorited(mealID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[mealID]
	return ok
}

// IDs returns the favorite meal ids, sorted.
func (s *Sync) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// InFlight reports whether a toggle for mealID has not settled yet. Callers
// use it to disable the control; Sync does not serialize toggles itself.
func (s *Sync) InFlight(mealID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight[mealID] > 0
}

// Toggle flips the membership of mealID in memory before any I/O, then sends
// the matching insert or delete to the store. If the store call fails the
// flip is reverted and the toggle ends RolledBack.
func (s *Sync) Toggle(ctx context.Context, mealID string) *Toggle {
	if mealID == "" {
		t := newToggle(mealID, false)
		t.settle(ErrEmptyMealID)
		return t
	}

	s.mu.Lock()
	_, was := s.ids[mealID]
	s.setLocked(mealID, !was)
	s.inFlight[mealID]++
	s.pending[mealID] = !was
	epoch := s.epoch
	s.mu.Unlock()

	t := newToggle(mealID, !was)
	run := func(ctx context.Context) error {
		if t.Favorited {
			return s.store.AddFavorite(ctx, mealID)
		}
		return s.store.RemoveFavorite(ctx, mealID)
	}
	if err := s.dispatch.Dispatch(ctx, mealID, run, func(err error) { s.finish(t, was, epoch, err) }); err != nil {
		s.finish(t, was, epoch, err)
	}
	return t
}

// finish settles t. On failure the membership reverts to its pre-toggle
// value; on success the last toggle for the meal re-applies its target, since
// a Load that ran meanwhile may have replaced it with an older server list.
func (s *Sync) finish(t *Toggle, was bool, epoch uint64, err error) {
	s.mu.Lock()
	last := s.inFlight[t.MealID] <= 1
	if last {
		delete(s.inFlight, t.MealID)
	} else {
		s.inFlight[t.MealID]--
	}
	if epoch == s.epoch {
		switch {
		case err != nil:
			s.setLocked(t.MealID, was)
		case last:
			s.setLocked(t.MealID, t.Favorited)
		}
	}
	if last {
		delete(s.pending, t.MealID)
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Str("meal_id", t.MealID).Bool("favorited", t.Favorited).Msg("favorite toggle rolled back")
	}
	t.settle(err)
}

func (s *Sync) setLocked(mealID string, favorited bool) {
	if favorited {
		s.ids[mealID] = struct{}{}
	} else {
		delete(s.ids, mealID)
	}
}

// Reset clears the set, for logout. Toggles still in flight settle normally
// but no longer touch the set.
func (s *Sync) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discardLocked()
	s.userID = ""
}

// discardLocked empties the set and starts a new epoch so toggles from the
// old one no longer touch it.
func (s *Sync) discardLocked() {
	s.ids = map[string]struct{}{}
	s.pending = map[string]bool{}
	s.epoch++
}
