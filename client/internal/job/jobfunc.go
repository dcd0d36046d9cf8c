// Package job adapts SDK closures to the shard executor.
package job

import (
	"context"
	"errors"
)

// ErrNilJobFunc is returned by Run when a Tracked job has no function.
var ErrNilJobFunc = errors.New("job: nil function")

// Tracked runs fn on the executor and reports the settled outcome, after the
// last retry, to onComplete.
type Tracked struct {
	fn         func(context.Context) error
	onComplete func(error)
}

// NewTracked builds a Tracked job. onComplete may be nil.
func NewTracked(fn func(context.Context) error, onComplete func(error)) *Tracked {
	return &Tracked{fn: fn, onComplete: onComplete}
}

// Run implements shardqueue.Job.
func (t *Tracked) Run(ctx context.Context) error {
	if t.fn == nil {
		return ErrNilJobFunc
	}
	return t.fn(ctx)
}

// Complete implements shardqueue.Completer.
func (t *Tracked) Complete(err error) {
	if t.onComplete != nil {
		t.onComplete(err)
	}
}
