package auth

import (
	"context"
)

const (
	// LocalDevAPIKey is the hardcoded key accepted in development only.
	LocalDevAPIKey = "sk_local_cooking_helper_dev_key"

	// LocalDevUserID is the user the development key resolves to.
	LocalDevUserID = "local-dev"

	// LocalDevEmail is the address of the development user.
	LocalDevEmail = "dev@cooking-helper.local"
)

// DevAuthorizer accepts LocalDevAPIKey and defers every other token to next.
type DevAuthorizer struct {
	next Authorizer
}

// NewDevAuthorizer wraps next with the development key shortcut.
func NewDevAuthorizer(next Authorizer) *DevAuthorizer {
	return &DevAuthorizer{next: next}
}

func (d *DevAuthorizer) Authorize(ctx context.Context, token string) (*Principal, error) {
	if token == LocalDevAPIKey {
		return &Principal{UserID: LocalDevUserID, Email: LocalDevEmail}, nil
	}
	return d.next.Authorize(ctx, token)
}

// NewAuthorizer returns the authorizer for the given mode. In dev mode the
// development key is honoured in front of JWT verification.
func NewAuthorizer(devMode bool, issuer *TokenIssuer) Authorizer {
	jwtAuth := NewJWTAuthorizer(issuer)
	if devMode {
		return NewDevAuthorizer(jwtAuth)
	}
	return jwtAuth
}
