package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/FluffyKas/cooking-helper/server/internal/model"
	"github.com/FluffyKas/cooking-helper/server/internal/nutrition"
)

// NutritionService validates input before calling the estimator.
type NutritionService struct {
	estimator nutrition.Estimator
}

func NewNutritionService(e nutrition.Estimator) *NutritionService {
	return &NutritionService{estimator: e}
}

// Estimate returns whole-recipe totals. Blank ingredient lines are ignored.
func (s *NutritionService) Estimate(ctx context.Context, ingredients []string) (model.Nutrition, error) {
	cleaned := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			cleaned = append(cleaned, ing)
		}
	}
	if len(cleaned) == 0 {
		return model.Nutrition{}, fmt.Errorf("ingredients are required: %w", model.ErrValidation)
	}
	return s.estimator.Estimate(ctx, cleaned)
}
