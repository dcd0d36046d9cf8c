package client

import (
	"errors"

	clienterrors "github.com/FluffyKas/cooking-helper/client/internal/errors"
	"github.com/FluffyKas/cooking-helper/client/internal/shardqueue"
	"github.com/FluffyKas/cooking-helper/client/internal/types"
)

// ErrBackPressure is returned when the client's internal shard queue is full.
var ErrBackPressure = errors.New("back-pressure (queue full)")

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// Re-export shared SDK error so callers compare against a single symbol.
var ErrNotFound = types.ErrNotFound

// IsIrrecoverable reports whether err is an HTTP failure that retrying cannot
// fix (4xx other than 408 and 429).
func IsIrrecoverable(err error) bool { return clienterrors.IsIrrecoverable(err) }

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from an HTTP response.
func StatusCode(err error) int { return clienterrors.StatusCode(err) }

func isQueueFull(err error) bool { return errors.Is(err, shardqueue.ErrQueueFull) }
