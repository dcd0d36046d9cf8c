package shardqueue

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueFull is returned by Submit when the key's shard stayed full for
	// the whole enqueue timeout. Callers may retry later.
	ErrQueueFull = errors.New("shard queue full")

	// ErrExecutorClosed is returned once Stop has been called.
	ErrExecutorClosed = errors.New("shard executor closed")
)

// QueueFullError describes which shard rejected a job. It matches
// ErrQueueFull under errors.Is.
type QueueFullError struct {
	Shard    int
	Length   int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("shard %d rejected job: queue at %d/%d", e.Shard, e.Length, e.Capacity)
}

func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }
