package auth

import "errors"

var (
	// ErrMissingToken is returned when the request carries no Authorization header.
	ErrMissingToken = errors.New("missing Authorization header")

	// ErrMalformedHeader is returned when the header is not "Bearer <token>".
	ErrMalformedHeader = errors.New("invalid Authorization header format, expected 'Bearer <token>'")

	// ErrInvalidToken is returned when a token fails verification or has expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)
