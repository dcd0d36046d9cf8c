package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/FluffyKas/cooking-helper/client/internal/types"
)

// Signup creates an account and returns a session token.
func Signup(ctx context.Context, httpClient HTTPClient, baseURL string, creds types.Credentials) (*types.Session, error) {
	return authenticate(ctx, httpClient, baseURL, "signup", http.StatusCreated, creds)
}

// Login exchanges credentials for a session token.
func Login(ctx context.Context, httpClient HTTPClient, baseURL string, creds types.Credentials) (*types.Session, error) {
	return authenticate(ctx, httpClient, baseURL, "login", http.StatusOK, creds)
}

func authenticate(ctx context.Context, httpClient HTTPClient, baseURL, path string, want int, creds types.Credentials) (*types.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := newJSONRequest(ctx, http.MethodPost, fmt.Sprintf("%s/api/auth/%s", baseURL, path), creds)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, req, want, path)
	if err != nil {
		return nil, err
	}
	var s types.Session
	if err := decodeJSON(resp, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteAccount removes the caller's favorites and user record.
func DeleteAccount(ctx context.Context, httpClient HTTPClient, baseURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req, err := newJSONRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/api/account", baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := do(httpClient, req, http.StatusOK, "delete account")
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}
