package auth

import (
	"context"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}

// Authorizer resolves a bearer token to the caller it was issued for.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*Principal, error)
}
