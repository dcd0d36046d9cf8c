package listing

import "strings"

// All matches every complexity or cuisine.
const All = "all"

// Filter selects meals from the snapshot. Zero values match everything.
type Filter struct {
	Search     string   // substring of the name, case-insensitive
	Complexity string   // "easy", "medium", "hard" or All
	Cuisine    string   // cuisine name or All
	Labels     []string // every label must be present on the meal
}

// Matches reports whether m passes every predicate of f.
func (f Filter) Matches(m Meal) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.Search)) {
		return false
	}
	if !matchesChoice(f.Complexity, m.Complexity) || !matchesChoice(f.Cuisine, m.Cuisine) {
		return false
	}
	return hasAllLabels(m.Labels, f.Labels)
}

func matchesChoice(want, got string) bool {
	if want == "" || strings.EqualFold(want, All) {
		return true
	}
	return strings.EqualFold(want, got)
}

func hasAllLabels(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ApplyFilters returns the snapshot meals matching f, in snapshot order. It
// never mutates the snapshot and never does I/O.
func (e *Engine) ApplyFilters(f Filter) []Meal {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Meal, 0, len(e.meals))
	for _, m := range e.meals {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}
