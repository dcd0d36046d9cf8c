package types

// MealPage is one offset/limit page of meals, newest first.
type MealPage struct {
	Meals   []Meal `json:"meals"`
	Total   int    `json:"total"`
	HasMore bool   `json:"hasMore"`
}

// MealEnvelope wraps create/update responses.
type MealEnvelope struct {
	Success bool  `json:"success"`
	Meal    *Meal `json:"meal"`
}

// ListLabelsResponse wraps GET /api/labels.
type ListLabelsResponse struct {
	Labels []string `json:"labels"`
}

// ListFavoritesResponse wraps GET /api/favorites.
type ListFavoritesResponse struct {
	MealIDs []string `json:"mealIds"`
	Count   int      `json:"count"`
}

// ListFavoriteMealsResponse wraps GET /api/favorites/meals.
type ListFavoriteMealsResponse struct {
	Meals []Meal `json:"meals"`
	Count int    `json:"count"`
}

// HealthResponse wraps GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the service's JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}
