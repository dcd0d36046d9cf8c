package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		err    error
	}{
		{header: "", err: ErrMissingToken},
		{header: "Bearer abc", want: "abc"},
		{header: "Basic abc", err: ErrMalformedHeader},
		{header: "Bearer", err: ErrMalformedHeader},
		{header: "Bearer a b", err: ErrMalformedHeader},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		got, err := ExtractBearerToken(r)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("header %q: want %v, got %v", tc.header, tc.err, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("header %q: got %q err=%v", tc.header, got, err)
		}
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	iss := NewTokenIssuer("secret", time.Hour)
	tok, err := iss.Issue("user-1", "a@b.test")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	p, err := NewJWTAuthorizer(iss).Authorize(context.Background(), tok)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if p.UserID != "user-1" || p.Email != "a@b.test" {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestTokenIssuer_RejectsExpiredAndForeign(t *testing.T) {
	iss := NewTokenIssuer("secret", time.Minute)
	start := time.Now()
	iss.now = func() time.Time { return start }
	tok, err := iss.Issue("user-1", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	iss.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, err := iss.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: want ErrInvalidToken, got %v", err)
	}

	other := NewTokenIssuer("other-secret", time.Hour)
	foreign, _ := other.Issue("user-1", "")
	if _, err := NewTokenIssuer("secret", time.Hour).Verify(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign token: want ErrInvalidToken, got %v", err)
	}
	if _, err := iss.Verify("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: want ErrInvalidToken, got %v", err)
	}
}

func TestNewAuthorizer_DevKey(t *testing.T) {
	iss := NewTokenIssuer("secret", time.Hour)
	ctx := context.Background()

	p, err := NewAuthorizer(true, iss).Authorize(ctx, LocalDevAPIKey)
	if err != nil || p.UserID != LocalDevUserID {
		t.Fatalf("dev key in dev mode: p=%+v err=%v", p, err)
	}
	if _, err := NewAuthorizer(false, iss).Authorize(ctx, LocalDevAPIKey); err == nil {
		t.Fatalf("dev key must be rejected outside dev mode")
	}

	tok, _ := iss.Issue("user-2", "")
	if p, err := NewAuthorizer(true, iss).Authorize(ctx, tok); err != nil || p.UserID != "user-2" {
		t.Fatalf("jwt in dev mode: p=%+v err=%v", p, err)
	}
}
