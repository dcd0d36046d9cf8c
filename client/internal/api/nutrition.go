package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/FluffyKas/cooking-helper/client/internal/types"
)

// EstimateNutrition asks the service for whole-recipe macro totals.
func EstimateNutrition(ctx context.Context, httpClient HTTPClient, baseURL string, ingredients []string) (*types.Nutrition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("ingredients are required")
	}
	req, err := newJSONRequest(ctx, http.MethodPost, fmt.Sprintf("%s/api/nutrition", baseURL), types.NutritionRequest{Ingredients: ingredients})
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, req, http.StatusOK, "estimate nutrition")
	if err != nil {
		return nil, err
	}
	var n types.Nutrition
	if err := decodeJSON(resp, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
