package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/FluffyKas/cooking-helper/server/internal/auth"
	"github.com/FluffyKas/cooking-helper/server/internal/model"
	"github.com/FluffyKas/cooking-helper/server/internal/store"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

// Session is returned by signup and login.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// AccountService handles signup, login and account deletion.
type AccountService struct {
	store  store.Store
	issuer *auth.TokenIssuer
	log    zerolog.Logger
	cost   int
}

func NewAccountService(s store.Store, issuer *auth.TokenIssuer, log zerolog.Logger) *AccountService {
	return &AccountService{store: s, issuer: issuer, log: log, cost: bcrypt.DefaultCost}
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (s *AccountService) Signup(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", MinPasswordLength, model.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.store.Users().Create(ctx, &model.User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("unknown email: %w", model.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("password mismatch: %w", model.ErrUnauthorized)
	}
	return s.session(u)
}

// EnsureUser provisions a password-less account for userID if none exists.
func (s *AccountService) EnsureUser(ctx context.Context, userID, email string) error {
	if _, err := s.store.Users().Get(ctx, userID); err == nil {
		return nil
	} else if !errors.Is(err, model.ErrNotFound) {
		return err
	}
	_, err := s.store.Users().Create(ctx, &model.User{UserID: userID, Email: normalizeEmail(email)})
	if errors.Is(err, model.ErrConflict) {
		return nil
	}
	return err
}

// DeleteAccount removes the user's favorites and then the user record.
// Meals authored by the user are kept.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.Favorites().DeleteForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete favorites: %w", err)
	}
	if err := s.store.Users().Delete(ctx, userID); err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}

func (s *AccountService) session(u *model.User) (*Session, error) {
	tok, err := s.issuer.Issue(u.UserID, u.Email)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: u.UserID, Email: u.Email, Token: tok}, nil
}
