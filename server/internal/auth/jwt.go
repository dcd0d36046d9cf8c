package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "cooking-helper"

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer signing with secret; tokens live for ttl.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for userID.
func (i *TokenIssuer) Issue(userID, email string) (string, error) {
	now := i.now()
	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns its principal.
func (i *TokenIssuer) Verify(token string) (*Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Principal{UserID: c.Subject, Email: c.Email}, nil
}

// JWTAuthorizer authorizes requests carrying tokens from a TokenIssuer.
type JWTAuthorizer struct {
	issuer *TokenIssuer
}

// NewJWTAuthorizer wraps issuer as an Authorizer.
func NewJWTAuthorizer(issuer *TokenIssuer) *JWTAuthorizer {
	return &JWTAuthorizer{issuer: issuer}
}

func (a *JWTAuthorizer) Authorize(_ context.Context, token string) (*Principal, error) {
	return a.issuer.Verify(token)
}
