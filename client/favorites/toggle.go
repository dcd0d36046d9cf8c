package favorites

import (
	"context"
	"sync"
)

// State is the lifecycle of one optimistic toggle.
type State int

const (
	// Pending: the in-memory flip is applied, the store call has not settled.
	Pending State = iota
	// Committed: the store accepted the change.
	Committed
	// RolledBack: the store call failed and the flip was reverted.
	RolledBack
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Toggle tracks one favorite flip from Pending to Committed or RolledBack.
type Toggle struct {
	MealID    string
	Favorited bool // membership the toggle moves to

	mu    sync.Mutex
	state State
	err   error
	done  chan struct{}
}

func newToggle(mealID string, favorited bool) *Toggle {
	return &Toggle{MealID: mealID, Favorited: favorited, done: make(chan struct{})}
}

// State returns the current state.
func (t *Toggle) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err returns the store error that caused a rollback, or nil.
func (t *Toggle) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Done is closed once the toggle has settled.
func (t *Toggle) Done() <-chan struct{} { return t.done }

// Wait blocks until the toggle settles or ctx ends. It returns the rollback
// cause, nil when committed, or ctx.Err().
func (t *Toggle) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// settle moves the toggle out of Pending. Only the first call has an effect.
func (t *Toggle) settle(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Pending {
		return
	}
	if err != nil {
		t.state, t.err = RolledBack, err
	} else {
		t.state = Committed
	}
	close(t.done)
}
