// Package errors tells the SDK's retry logic which meal-service failures are
// worth another attempt.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory selects the retry policy for a failure.
type ErrorCategory int

const (
	// Recoverable failures (5xx, 408, 429, dropped connections) are retried
	// with backoff.
	Recoverable ErrorCategory = iota
	// Irrecoverable failures (validation, auth, ownership) fail at once.
	Irrecoverable
)

func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "recoverable"
	case Irrecoverable:
		return "irrecoverable"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ClassifiedError is a failed SDK operation with its retry category.
// StatusCode is 0 when the request never got a response.
type ClassifiedError struct {
	Category   ErrorCategory
	Op         string
	StatusCode int
	Message    string // the service's error message, when it sent one
	Err        error
}

func (e *ClassifiedError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Message != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

// IsIrrecoverable reports whether err wraps a ClassifiedError that must not
// be retried. Unclassified errors count as recoverable.
func IsIrrecoverable(err error) bool {
	var ce *ClassifiedError
	return stderrors.As(err, &ce) && ce.Category == Irrecoverable
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}
