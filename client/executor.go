package client

import (
	"context"

	"github.com/FluffyKas/cooking-helper/client/internal/shardqueue"
)

// executor abstracts the internal async job runner used by Dispatch.
type executor interface {
	Submit(context.Context, string, shardqueue.Job) error
	Barrier(context.Context, string) error
	Stop()
}
