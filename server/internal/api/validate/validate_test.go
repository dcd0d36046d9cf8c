package validate

import (
	"strings"
	"testing"

	"github.com/FluffyKas/cooking-helper/server/internal/model"
)

func validMeal() *model.Meal {
	return &model.Meal{Name: "Tomato Soup", Complexity: model.ComplexityEasy, Cuisine: "Italian", Servings: 2}
}

func intp(v int) *int { return &v }

func TestMeal(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(m *model.Meal)
		expectError bool
	}{
		{"valid", func(m *model.Meal) {}, false},
		{"valid with image", func(m *model.Meal) { m.Image = "https://example.com/soup.jpg" }, false},
		{"missing name", func(m *model.Meal) { m.Name = "" }, true},
		{"long name", func(m *model.Meal) { m.Name = strings.Repeat("a", MaxNameLength+1) }, true},
		{"bad complexity", func(m *model.Meal) { m.Complexity = "extreme" }, true},
		{"missing cuisine", func(m *model.Meal) { m.Cuisine = "" }, true},
		{"spiciness too high", func(m *model.Meal) { m.Spiciness = 4 }, true},
		{"negative spiciness", func(m *model.Meal) { m.Spiciness = -1 }, true},
		{"negative servings", func(m *model.Meal) { m.Servings = -2 }, true},
		{"zero prep time", func(m *model.Meal) { m.PrepTime = intp(0) }, true},
		{"negative calories", func(m *model.Meal) { m.Calories = intp(-5) }, true},
		{"ftp image", func(m *model.Meal) { m.Image = "ftp://example.com/a.jpg" }, true},
		{"relative image", func(m *model.Meal) { m.Image = "/img/a.jpg" }, true},
		{"too many ingredients", func(m *model.Meal) { m.Ingredients = make([]string, MaxIngredients+1) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMeal()
			tt.mutate(m)
			err := Meal(m)
			if tt.expectError && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCredentials(t *testing.T) {
	if err := Credentials("bad email", "long-enough", 8); err == nil {
		t.Fatalf("expected error for invalid email")
	}
	if err := Credentials("cook@example.com", "short", 8); err == nil {
		t.Fatalf("expected error for short password")
	}
	if err := Credentials("cook@example.com", strings.Repeat("p", 73), 8); err == nil {
		t.Fatalf("expected error for oversized password")
	}
	if err := Credentials("cook@example.com", "long-enough", 8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
