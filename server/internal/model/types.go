package model

import "time"

// Complexity is the effort level of a recipe.
type Complexity string

const (
	ComplexityEasy   Complexity = "easy"
	ComplexityMedium Complexity = "medium"
	ComplexityHard   Complexity = "hard"
)

// Valid reports whether c is one of the known complexity levels.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexityEasy, ComplexityMedium, ComplexityHard:
		return true
	}
	return false
}

// MaxSpiciness is the hottest level a meal can be tagged with.
const MaxSpiciness = 3

// Meal is one recipe. Macro fields are per serving.
type Meal struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId,omitempty"`
	Name         string     `json:"name"`
	Complexity   Complexity `json:"complexity"`
	Cuisine      string     `json:"cuisine"`
	Ingredients  []string   `json:"ingredients,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	Image        string     `json:"image,omitempty"`
	Labels       []string   `json:"labels,omitempty"`
	PrepTime     *int       `json:"prepTime,omitempty"`
	Servings     int        `json:"servings"`
	Spiciness    int        `json:"spiciness"`
	Calories     *int       `json:"calories,omitempty"`
	Protein      *int       `json:"protein,omitempty"`
	Carbs        *int       `json:"carbs,omitempty"`
	Fat          *int       `json:"fat,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// MealPage is one offset/limit slice of the meals table, newest first.
type MealPage struct {
	Meals   []*Meal `json:"meals"`
	Total   int     `json:"total"`
	HasMore bool    `json:"hasMore"`
}

// ListMealsRequest captures pagination for listing meals.
type ListMealsRequest struct {
	Limit  int
	Offset int
}

// NewMealPage builds a page and derives HasMore from the offset and total.
func NewMealPage(meals []*Meal, total, offset int) *MealPage {
	if meals == nil {
		meals = []*Meal{}
	}
	return &MealPage{
		Meals:   meals,
		Total:   total,
		HasMore: offset+len(meals) < total,
	}
}

// Favorite links a user to a meal they starred.
type Favorite struct {
	UserID    string    `json:"userId"`
	MealID    string    `json:"mealId"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is an account able to author meals and keep favorites.
type User struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Nutrition holds macro estimates for a whole recipe.
type Nutrition struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}
