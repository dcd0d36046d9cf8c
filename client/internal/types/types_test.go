package types

import (
	"strings"
	"testing"
)

func TestValidateIDPresent(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in string
		ok bool
	}{
		{"3f2b1c9e-0000-4000-8000-000000000001", true}, {"meal-1", true}, {"", false}, {"   ", false}, {"a/b", false}, {"a?x=1", false},
	}
	for _, c := range cases {
		err := ValidateIDPresent(c.in, "mealId")
		if c.ok && err != nil {
			t.Fatalf("expected ok for %q, got %v", c.in, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("expected error for %q", c.in)
		}
	}
}

func TestValidatePaging(t *testing.T) {
	t.Parallel()
	if err := ValidatePaging(20, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidatePaging(0, 0); err == nil {
		t.Fatal("expected error for zero limit")
	}
	if err := ValidatePaging(20, -1); err == nil {
		t.Fatal("expected error for negative offset")
	}
}

func TestNutritionPerServing(t *testing.T) {
	t.Parallel()
	total := Nutrition{Calories: 1000, Protein: 45, Carbs: 120, Fat: 31}
	got := total.PerServing(4)
	want := Nutrition{Calories: 250, Protein: 11, Carbs: 30, Fat: 8}
	if got != want {
		t.Fatalf("PerServing(4) = %+v, want %+v", got, want)
	}
	if got := total.PerServing(0); got != total {
		t.Fatalf("PerServing(0) should behave like 1 serving, got %+v", got)
	}
}

func TestMealSetNutrition(t *testing.T) {
	t.Parallel()
	var m Meal
	m.SetNutrition(Nutrition{Calories: 400, Protein: 20, Carbs: 50, Fat: 10})
	if m.Calories == nil || *m.Calories != 400 || *m.Fat != 10 {
		t.Fatalf("macros not set: %+v", m)
	}
}

func TestSpicyIcons(t *testing.T) {
	t.Parallel()
	cases := map[int]int{-1: 0, 0: 0, 1: 1, 3: 3, 7: 3}
	for level, want := range cases {
		if got := strings.Count(SpicyIcons(level), "🌶️"); got != want {
			t.Fatalf("SpicyIcons(%d) has %d markers, want %d", level, got, want)
		}
	}
}
