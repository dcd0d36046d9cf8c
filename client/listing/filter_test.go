package listing

import (
	"reflect"
	"testing"
)

func filterEngine(meals ...Meal) *Engine {
	e := New(nil)
	e.Initialize(meals, len(meals), false)
	return e
}

func names(meals []Meal) []string {
	out := make([]string, len(meals))
	for i, m := range meals {
		out[i] = m.Name
	}
	return out
}

func TestApplyFilters_SearchIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	e := filterEngine(
		Meal{Name: "Tomato Soup"},
		Meal{Name: "Soup Dumplings"},
		Meal{Name: "Pasta"},
	)
	got := names(e.ApplyFilters(Filter{Search: "soup", Complexity: All, Cuisine: All}))
	if want := []string{"Tomato Soup", "Soup Dumplings"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestApplyFilters_EmptyFilterReturnsSnapshotInOrder(t *testing.T) {
	t.Parallel()
	meals := []Meal{{ID: "c", Name: "C"}, {ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	e := filterEngine(meals...)
	got := e.ApplyFilters(Filter{Complexity: All, Cuisine: All})
	if !reflect.DeepEqual(got, meals) {
		t.Fatalf("expected full snapshot in order, got %v", names(got))
	}
	if !reflect.DeepEqual(e.ApplyFilters(Filter{}), meals) {
		t.Fatal("zero Filter must match everything")
	}
}

func TestApplyFilters_IsPure(t *testing.T) {
	t.Parallel()
	e := filterEngine(
		Meal{Name: "Curry", Complexity: "hard", Cuisine: "Indian", Labels: []string{"Spicy"}},
		Meal{Name: "Salad", Complexity: "easy", Cuisine: "Greek"},
	)
	before := e.Snapshot()
	f := Filter{Search: "a", Complexity: "easy", Cuisine: All}
	first := e.ApplyFilters(f)
	second := e.ApplyFilters(f)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("ApplyFilters must be deterministic")
	}
	if len(first) > 0 {
		first[0].Name = "mutated"
	}
	if !reflect.DeepEqual(e.Snapshot(), before) {
		t.Fatal("ApplyFilters must not mutate the snapshot")
	}
}

func TestApplyFilters_ComplexityAndCuisine(t *testing.T) {
	t.Parallel()
	e := filterEngine(
		Meal{Name: "Curry", Complexity: "hard", Cuisine: "Indian"},
		Meal{Name: "Dal", Complexity: "easy", Cuisine: "Indian"},
		Meal{Name: "Salad", Complexity: "easy", Cuisine: "Greek"},
	)
	if got := names(e.ApplyFilters(Filter{Complexity: "easy", Cuisine: All})); !reflect.DeepEqual(got, []string{"Dal", "Salad"}) {
		t.Fatalf("complexity filter: %v", got)
	}
	if got := names(e.ApplyFilters(Filter{Complexity: All, Cuisine: "indian"})); !reflect.DeepEqual(got, []string{"Curry", "Dal"}) {
		t.Fatalf("cuisine filter: %v", got)
	}
	if got := names(e.ApplyFilters(Filter{Complexity: "easy", Cuisine: "Indian"})); !reflect.DeepEqual(got, []string{"Dal"}) {
		t.Fatalf("combined filter: %v", got)
	}
}

func TestApplyFilters_LabelsUseAndSemantics(t *testing.T) {
	t.Parallel()
	e := filterEngine(Meal{Name: "Stir fry", Labels: []string{"Quick", "Dinner"}})
	if got := e.ApplyFilters(Filter{Labels: []string{"Quick"}}); len(got) != 1 {
		t.Fatal("meal with {Quick, Dinner} must match {Quick}")
	}
	if got := e.ApplyFilters(Filter{Labels: []string{"quick", "DINNER"}}); len(got) != 1 {
		t.Fatal("label match must ignore case")
	}
	if got := e.ApplyFilters(Filter{Labels: []string{"Quick", "Vegan"}}); len(got) != 0 {
		t.Fatal("meal with {Quick, Dinner} must not match {Quick, Vegan}")
	}
	if got := e.ApplyFilters(Filter{Labels: []string{}}); len(got) != 1 {
		t.Fatal("empty label request must match")
	}
}
