package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/FluffyKas/cooking-helper/client/internal/types"
)

// ListMeals fetches one page of meals, newest first.
func ListMeals(ctx context.Context, httpClient HTTPClient, baseURL string, limit, offset int) (*types.MealPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidatePaging(limit, offset); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	req, err := newJSONRequest(ctx, http.MethodGet, fmt.Sprintf("%s/api/meals?%s", baseURL, q.Encode()), nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, req, http.StatusOK, "list meals")
	if err != nil {
		return nil, err
	}
	var page types.MealPage
	if err := decodeJSON(resp, &page); err != nil {
		return nil, err
	}
	if page.Meals == nil {
		page.Meals = []types.Meal{}
	}
	return &page, nil
}

// GetMeal retrieves one meal. A missing meal yields types.ErrNotFound.
func GetMeal(ctx context.Context, httpClient HTTPClient, baseURL, mealID string) (*types.Meal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(mealID, "mealId"); err != nil {
		return nil, err
	}
	req, err := newJSONRequest(ctx, http.MethodGet, fmt.Sprintf("%s/api/meals/%s", baseURL, url.PathEscape(mealID)), nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, req, http.StatusOK, "get meal")
	if err != nil {
		return nil, err
	}
	var m types.Meal
	if err := decodeJSON(resp, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMeal posts a new meal and returns the stored record.
func CreateMeal(ctx context.Context, httpClient HTTPClient, baseURL string, meal types.Meal) (*types.Meal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The service is the authority on field validation.
	meal.ID = ""
	req, err := newJSONRequest(ctx, http.MethodPost, fmt.Sprintf("%s/api/meals", baseURL), meal)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, req, http.StatusCreated, "create meal")
	if err != nil {
		return nil, err
	}
	var env types.MealEnvelope
	if err := decodeJSON(resp, &env); err != nil {
		return nil, err
	}
	if env.Meal == nil {
		return nil, fmt.Errorf("create meal: empty response")
	}
	return env.Meal, nil
}

// UpdateMeal replaces the mutable fields of an existing meal.
func UpdateMeal(ctx context.Context, httpClient HTTPClient, baseURL, mealID string, meal types.Meal) (*types.Meal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(mealID, "mealId"); err != nil {
		return nil, err
	}
	req, err := newJSONRequest(ctx, http.MethodPut, fmt.Sprintf("%s/api/meals/%s", baseURL, url.PathEscape(mealID)), meal)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, req, http.StatusOK, "update meal")
	if err != nil {
		return nil, err
	}
	var env types.MealEnvelope
	if err := decodeJSON(resp, &env); err != nil {
		return nil, err
	}
	if env.Meal == nil {
		return nil, fmt.Errorf("update meal: empty response")
	}
	return env.Meal, nil
}

// DeleteMeal removes a meal. Backend returns 204 No Content on success.
func DeleteMeal(ctx context.Context, httpClient HTTPClient, baseURL, mealID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateIDPresent(mealID, "mealId"); err != nil {
		return err
	}
	req, err := newJSONRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/api/meals/%s", baseURL, url.PathEscape(mealID)), nil)
	if err != nil {
		return err
	}
	resp, err := do(httpClient, req, http.StatusNoContent, "delete meal")
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

// ListLabels returns the sorted set of labels in use.
func ListLabels(ctx context.Context, httpClient HTTPClient, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := newJSONRequest(ctx, http.MethodGet, fmt.Sprintf("%s/api/labels", baseURL), nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, req, http.StatusOK, "list labels")
	if err != nil {
		return nil, err
	}
	var lr types.ListLabelsResponse
	if err := decodeJSON(resp, &lr); err != nil {
		return nil, err
	}
	if lr.Labels == nil {
		lr.Labels = []string{}
	}
	return lr.Labels, nil
}
