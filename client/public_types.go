package client

import "github.com/FluffyKas/cooking-helper/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	Meal        = types.Meal
	MealPage    = types.MealPage
	Nutrition   = types.Nutrition
	Session     = types.Session
	Credentials = types.Credentials

	HealthResponse = types.HealthResponse
)

// Complexity values accepted by the service.
const (
	ComplexityEasy   = types.ComplexityEasy
	ComplexityMedium = types.ComplexityMedium
	ComplexityHard   = types.ComplexityHard
)

// SpicyIcons renders a spiciness level (0-3) as repeated chili markers.
func SpicyIcons(level int) string { return types.SpicyIcons(level) }
