package services

import (
	"context"

	"github.com/FluffyKas/cooking-helper/server/internal/model"
	"github.com/FluffyKas/cooking-helper/server/internal/store"
)

// FavoriteService manages per-user favorite membership.
type FavoriteService struct {
	store store.Store
}

func NewFavoriteService(s store.Store) *FavoriteService { return &FavoriteService{store: s} }

func (s *FavoriteService) ListMealIDs(ctx context.Context, userID string) ([]string, error) {
	return s.store.Favorites().ListMealIDs(ctx, userID)
}

func (s *FavoriteService) ListMeals(ctx context.Context, userID string) ([]*model.Meal, error) {
	return s.store.Favorites().ListMeals(ctx, userID)
}

// Add favorites mealID for userID. Adding an existing favorite is a no-op;
// an unknown meal yields model.ErrNotFound.
func (s *FavoriteService) Add(ctx context.Context, userID, mealID string) error {
	if _, err := s.store.Meals().Get(ctx, mealID); err != nil {
		return err
	}
	return s.store.Favorites().Add(ctx, userID, mealID)
}

// Remove is a no-op when the pair does not exist.
func (s *FavoriteService) Remove(ctx context.Context, userID, mealID string) error {
	return s.store.Favorites().Remove(ctx, userID, mealID)
}
