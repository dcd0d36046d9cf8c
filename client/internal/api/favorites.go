package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/FluffyKas/cooking-helper/client/internal/types"
)

// ListFavorites returns the caller's favorite meal ids.
func ListFavorites(ctx context.Context, httpClient HTTPClient, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := newJSONRequest(ctx, http.MethodGet, fmt.Sprintf("%s/api/favorites", baseURL), nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, req, http.StatusOK, "list favorites")
	if err != nil {
		return nil, err
	}
	var lr types.ListFavoritesResponse
	if err := decodeJSON(resp, &lr); err != nil {
		return nil, err
	}
	if lr.MealIDs == nil {
		lr.MealIDs = []string{}
	}
	return lr.MealIDs, nil
}

// ListFavoriteMeals returns the caller's favorite meals, newest favorite first.
func ListFavoriteMeals(ctx context.Context, httpClient HTTPClient, baseURL string) ([]types.Meal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := newJSONRequest(ctx, http.MethodGet, fmt.Sprintf("%s/api/favorites/meals", baseURL), nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, req, http.StatusOK, "list favorite meals")
	if err != nil {
		return nil, err
	}
	var lr types.ListFavoriteMealsResponse
	if err := decodeJSON(resp, &lr); err != nil {
		return nil, err
	}
	if lr.Meals == nil {
		lr.Meals = []types.Meal{}
	}
	return lr.Meals, nil
}

// AddFavorite inserts (user, meal). The service treats duplicates as success.
func AddFavorite(ctx context.Context, httpClient HTTPClient, baseURL, mealID string) error {
	return putOrDeleteFavorite(ctx, httpClient, baseURL, http.MethodPut, mealID, "add favorite")
}

// RemoveFavorite deletes (user, meal). Removing an absent favorite succeeds.
func RemoveFavorite(ctx context.Context, httpClient HTTPClient, baseURL, mealID string) error {
	return putOrDeleteFavorite(ctx, httpClient, baseURL, http.MethodDelete, mealID, "remove favorite")
}

func putOrDeleteFavorite(ctx context.Context, httpClient HTTPClient, baseURL, method, mealID, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateIDPresent(mealID, "mealId"); err != nil {
		return err
	}
	req, err := newJSONRequest(ctx, method, fmt.Sprintf("%s/api/favorites/%s", baseURL, url.PathEscape(mealID)), nil)
	if err != nil {
		return err
	}
	resp, err := do(httpClient, req, http.StatusNoContent, op)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}
