package errors

import "net/http"

// categoryForStatus treats client errors as final, except request timeouts
// and rate limiting, which clear up on their own.
func categoryForStatus(status int) ErrorCategory {
	if status >= 400 && status < 500 && status != http.StatusRequestTimeout && status != http.StatusTooManyRequests {
		return Irrecoverable
	}
	return Recoverable
}

// NewHTTPError classifies an unexpected response status for op.
func NewHTTPError(status int, message, op string) *ClassifiedError {
	return &ClassifiedError{
		Category:   categoryForStatus(status),
		Op:         op,
		StatusCode: status,
		Message:    message,
	}
}

// NewNetworkError wraps a transport failure for op. Such failures are always
// recoverable.
func NewNetworkError(op string, err error) *ClassifiedError {
	return &ClassifiedError{Category: Recoverable, Op: op, Err: err}
}
