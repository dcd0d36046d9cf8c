package types

import (
	"strings"
	"time"
)

// Complexity values accepted by the service.
const (
	ComplexityEasy   = "easy"
	ComplexityMedium = "medium"
	ComplexityHard   = "hard"
)

// MaxSpiciness is the hottest level a meal can carry.
const MaxSpiciness = 3

// Meal mirrors the service's meal record. Macro fields are per serving and
// stay nil when unknown.
type Meal struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"userId,omitempty"`
	Name         string    `json:"name"`
	Complexity   string    `json:"complexity"`
	Cuisine      string    `json:"cuisine"`
	Ingredients  []string  `json:"ingredients,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
	Image        string    `json:"image,omitempty"`
	Labels       []string  `json:"labels,omitempty"`
	PrepTime     *int      `json:"prepTime,omitempty"`
	Servings     int       `json:"servings,omitempty"`
	Spiciness    int       `json:"spiciness"`
	Calories     *int      `json:"calories,omitempty"`
	Protein      *int      `json:"protein,omitempty"`
	Carbs        *int      `json:"carbs,omitempty"`
	Fat          *int      `json:"fat,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}

// SetNutrition copies n into the macro fields.
func (m *Meal) SetNutrition(n Nutrition) {
	cal, p, c, f := n.Calories, n.Protein, n.Carbs, n.Fat
	m.Calories, m.Protein, m.Carbs, m.Fat = &cal, &p, &c, &f
}

// SpicyIcons renders a spiciness level as repeated chili markers.
func SpicyIcons(level int) string {
	if level <= 0 {
		return ""
	}
	if level > MaxSpiciness {
		level = MaxSpiciness
	}
	return strings.Repeat("🌶️", level)
}

// Nutrition holds macro estimates. Totals from the estimator cover the whole
// recipe; use PerServing to divide them.
type Nutrition struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// PerServing divides the totals by servings, rounding half up.
// Servings below one are treated as one.
func (n Nutrition) PerServing(servings int) Nutrition {
	if servings < 1 {
		servings = 1
	}
	div := func(v int) int { return (v + servings/2) / servings }
	return Nutrition{
		Calories: div(n.Calories),
		Protein:  div(n.Protein),
		Carbs:    div(n.Carbs),
		Fat:      div(n.Fat),
	}
}

// Session is returned by signup and login.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}
