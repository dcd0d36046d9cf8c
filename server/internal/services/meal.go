package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/FluffyKas/cooking-helper/server/internal/labelcache"
	"github.com/FluffyKas/cooking-helper/server/internal/model"
	"github.com/FluffyKas/cooking-helper/server/internal/store"
)

// MealService orchestrates meal use cases and keeps the label cache coherent.
type MealService struct {
	store store.Store
	cache labelcache.Cache
	log   zerolog.Logger
}

func NewMealService(s store.Store, cache labelcache.Cache, log zerolog.Logger) *MealService {
	return &MealService{store: s, cache: cache, log: log}
}

func (s *MealService) ListMeals(ctx context.Context, req model.ListMealsRequest) (*model.MealPage, error) {
	return s.store.Meals().List(ctx, req)
}

func (s *MealService) GetMeal(ctx context.Context, mealID string) (*model.Meal, error) {
	return s.store.Meals().Get(ctx, mealID)
}

// CreateMeal stores m owned by userID. Labels are canonicalized and servings
// default to one.
func (s *MealService) CreateMeal(ctx context.Context, userID string, m *model.Meal) (*model.Meal, error) {
	in := *m
	in.ID = ""
	in.UserID = userID
	in.Labels = model.CanonicalLabels(in.Labels)
	if in.Servings == 0 {
		in.Servings = 1
	}
	out, err := s.store.Meals().Create(ctx, &in)
	if err != nil {
		return nil, err
	}
	s.invalidateLabels(ctx)
	return out, nil
}

// UpdateMeal replaces every mutable field of mealID with m. Id, owner and
// creation time are kept.
func (s *MealService) UpdateMeal(ctx context.Context, userID, mealID string, m *model.Meal) (*model.Meal, error) {
	existing, err := s.authorizeOwner(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}
	in := *m
	in.ID = existing.ID
	in.UserID = existing.UserID
	in.CreatedAt = existing.CreatedAt
	in.Labels = model.CanonicalLabels(in.Labels)
	if in.Servings == 0 {
		in.Servings = 1
	}
	out, err := s.store.Meals().Update(ctx, &in)
	if err != nil {
		return nil, err
	}
	s.invalidateLabels(ctx)
	return out, nil
}

// DeleteMeal removes mealID and every favorite pointing at it.
func (s *MealService) DeleteMeal(ctx context.Context, userID, mealID string) error {
	if _, err := s.authorizeOwner(ctx, userID, mealID); err != nil {
		return err
	}
	if err := s.store.Meals().Delete(ctx, mealID); err != nil {
		return err
	}
	s.invalidateLabels(ctx)
	return nil
}

// ListLabels serves the label catalogue, filling the cache on a miss.
func (s *MealService) ListLabels(ctx context.Context) ([]string, error) {
	if labels, ok, err := s.cache.Get(ctx); err != nil {
		s.log.Warn().Err(err).Msg("label cache read failed")
	} else if ok {
		return labels, nil
	}
	labels, err := s.store.Meals().Labels(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, labels); err != nil {
		s.log.Warn().Err(err).Msg("label cache write failed")
	}
	return labels, nil
}

// authorizeOwner loads mealID and checks userID may modify it. Meals without
// an owner (seeded data) can be modified by any authenticated user.
func (s *MealService) authorizeOwner(ctx context.Context, userID, mealID string) (*model.Meal, error) {
	existing, err := s.store.Meals().Get(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != "" && existing.UserID != userID {
		return nil, fmt.Errorf("meal %s belongs to another user: %w", mealID, model.ErrForbidden)
	}
	return existing, nil
}

func (s *MealService) invalidateLabels(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("label cache invalidation failed")
	}
}
