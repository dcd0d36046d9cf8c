package types

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FluffyKas/cooking-helper/client/internal/shardqueue"
)

// Executor is the async job runner used for favorites writes.
type Executor interface {
	Submit(context.Context, string, shardqueue.Job) error
}

// ErrNotFound is returned when the requested meal does not exist.
var ErrNotFound = errors.New("not found")

// ValidateIDPresent rejects blank identifiers before a request is built.
func ValidateIDPresent(id, field string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s is required", field)
	}
	if strings.ContainsAny(id, "/?#") {
		return fmt.Errorf("%s contains invalid characters", field)
	}
	return nil
}

// ValidatePaging rejects negative offsets and non-positive limits.
func ValidatePaging(limit, offset int) error {
	if limit <= 0 {
		return fmt.Errorf("limit must be > 0")
	}
	if offset < 0 {
		return fmt.Errorf("offset must be >= 0")
	}
	return nil
}
