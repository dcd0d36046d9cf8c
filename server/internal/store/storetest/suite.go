package storetest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/FluffyKas/cooking-helper/server/internal/model"
	"github.com/FluffyKas/cooking-helper/server/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// makeStore must return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("MealsCRUD", func(t *testing.T) { testMealsCRUD(t, makeStore(t)) })
	t.Run("Pagination", func(t *testing.T) { testPagination(t, makeStore(t)) })
	t.Run("Labels", func(t *testing.T) { testLabels(t, makeStore(t)) })
	t.Run("Favorites", func(t *testing.T) { testFavorites(t, makeStore(t)) })
	t.Run("Users", func(t *testing.T) { testUsers(t, makeStore(t)) })
}

func intp(v int) *int { return &v }

func newMeal(owner, name string, labels ...string) *model.Meal {
	return &model.Meal{
		UserID:      owner,
		Name:        name,
		Complexity:  model.ComplexityEasy,
		Cuisine:     "Italian",
		Ingredients: []string{"2 tomatoes", "1 onion"},
		Labels:      labels,
		Servings:    2,
		Spiciness:   1,
	}
}

func testMealsCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := "u-" + uuid.New().String()

	in := newMeal(owner, "Tomato Soup", "Quick", "Dinner")
	in.PrepTime = intp(25)
	in.Calories = intp(180)
	created, err := s.Meals().Create(ctx, in)
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("CreateMeal: missing id or timestamp: %+v", created)
	}

	got, err := s.Meals().Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetMeal: %v", err)
	}
	if got.Name != "Tomato Soup" || got.UserID != owner || got.Complexity != model.ComplexityEasy {
		t.Fatalf("GetMeal: unexpected %+v", got)
	}
	if !reflect.DeepEqual(got.Ingredients, in.Ingredients) || !reflect.DeepEqual(got.Labels, in.Labels) {
		t.Fatalf("GetMeal: lists not round-tripped: %+v", got)
	}
	if got.PrepTime == nil || *got.PrepTime != 25 || got.Calories == nil || *got.Calories != 180 || got.Protein != nil {
		t.Fatalf("GetMeal: optional ints not round-tripped: %+v", got)
	}

	upd := *got
	upd.Name = "Roasted Tomato Soup"
	upd.Complexity = model.ComplexityMedium
	upd.Labels = []string{"Vegan"}
	upd.PrepTime = nil
	out, err := s.Meals().Update(ctx, &upd)
	if err != nil {
		t.Fatalf("UpdateMeal: %v", err)
	}
	if out.ID != created.ID || out.Name != "Roasted Tomato Soup" || out.PrepTime != nil || out.UserID != owner {
		t.Fatalf("UpdateMeal: unexpected %+v", out)
	}
	if !reflect.DeepEqual(out.Labels, []string{"Vegan"}) {
		t.Fatalf("UpdateMeal: labels %v", out.Labels)
	}

	missing := upd
	missing.ID = uuid.New().String()
	if _, err := s.Meals().Update(ctx, &missing); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateMeal missing: want ErrNotFound, got %v", err)
	}

	if err := s.Meals().Delete(ctx, created.ID); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
	if _, err := s.Meals().Get(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetMeal after delete: want ErrNotFound, got %v", err)
	}
	if err := s.Meals().Delete(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteMeal twice: want ErrNotFound, got %v", err)
	}
}

func testPagination(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := "u-" + uuid.New().String()

	const n = 25
	var names []string
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("meal-%02d", i)
		if _, err := s.Meals().Create(ctx, newMeal(owner, name)); err != nil {
			t.Fatalf("CreateMeal %d: %v", i, err)
		}
		names = append(names, name)
	}

	first, err := s.Meals().List(ctx, model.ListMealsRequest{Limit: 20, Offset: 0})
	if err != nil {
		t.Fatalf("List first page: %v", err)
	}
	if len(first.Meals) != 20 || first.Total != n || !first.HasMore {
		t.Fatalf("first page: len=%d total=%d hasMore=%v", len(first.Meals), first.Total, first.HasMore)
	}
	if first.Meals[0].Name != names[n-1] {
		t.Fatalf("expected newest first, got %s", first.Meals[0].Name)
	}

	second, err := s.Meals().List(ctx, model.ListMealsRequest{Limit: 20, Offset: 20})
	if err != nil {
		t.Fatalf("List second page: %v", err)
	}
	if len(second.Meals) != 5 || second.Total != n || second.HasMore {
		t.Fatalf("second page: len=%d total=%d hasMore=%v", len(second.Meals), second.Total, second.HasMore)
	}
	if second.Meals[4].Name != names[0] {
		t.Fatalf("expected oldest last, got %s", second.Meals[4].Name)
	}

	seen := map[string]bool{}
	for _, m := range append(first.Meals, second.Meals...) {
		if seen[m.ID] {
			t.Fatalf("meal %s returned twice across pages", m.ID)
		}
		seen[m.ID] = true
	}

	past, err := s.Meals().List(ctx, model.ListMealsRequest{Limit: 20, Offset: 40})
	if err != nil {
		t.Fatalf("List past end: %v", err)
	}
	if len(past.Meals) != 0 || past.HasMore {
		t.Fatalf("past end: %+v", past)
	}
}

func testLabels(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := "u-" + uuid.New().String()

	empty, err := s.Meals().Labels(ctx)
	if err != nil {
		t.Fatalf("Labels on empty store: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no labels, got %v", empty)
	}

	for _, m := range []*model.Meal{
		newMeal(owner, "a", "Quick", "Dinner"),
		newMeal(owner, "b", "Vegan", "Quick"),
		newMeal(owner, "c"),
	} {
		if _, err := s.Meals().Create(ctx, m); err != nil {
			t.Fatalf("CreateMeal: %v", err)
		}
	}
	got, err := s.Meals().Labels(ctx)
	if err != nil {
		t.Fatalf("Labels: %v", err)
	}
	if want := []string{"Dinner", "Quick", "Vegan"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Labels = %v, want %v", got, want)
	}
}

func testFavorites(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := "u-" + uuid.New().String()
	other := "u-" + uuid.New().String()

	m1, err := s.Meals().Create(ctx, newMeal(user, "Soup Dumplings"))
	if err != nil {
		t.Fatalf("CreateMeal m1: %v", err)
	}
	m2, err := s.Meals().Create(ctx, newMeal(user, "Pasta"))
	if err != nil {
		t.Fatalf("CreateMeal m2: %v", err)
	}

	ids, err := s.Favorites().ListMealIDs(ctx, user)
	if err != nil || len(ids) != 0 {
		t.Fatalf("ListMealIDs empty: ids=%v err=%v", ids, err)
	}

	// duplicate insert must be a silent no-op
	for i := 0; i < 2; i++ {
		if err := s.Favorites().Add(ctx, user, m1.ID); err != nil {
			t.Fatalf("AddFavorite #%d: %v", i, err)
		}
	}
	if err := s.Favorites().Add(ctx, user, m2.ID); err != nil {
		t.Fatalf("AddFavorite m2: %v", err)
	}
	if err := s.Favorites().Add(ctx, other, m2.ID); err != nil {
		t.Fatalf("AddFavorite other: %v", err)
	}

	ids, err = s.Favorites().ListMealIDs(ctx, user)
	if err != nil {
		t.Fatalf("ListMealIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 favorites without duplicates, got %v", ids)
	}

	favMeals, err := s.Favorites().ListMeals(ctx, user)
	if err != nil || len(favMeals) != 2 {
		t.Fatalf("ListMeals: n=%d err=%v", len(favMeals), err)
	}

	// removing an absent pair is a no-op
	if err := s.Favorites().Remove(ctx, user, uuid.New().String()); err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
	if err := s.Favorites().Remove(ctx, user, m1.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	ids, _ = s.Favorites().ListMealIDs(ctx, user)
	if len(ids) != 1 || ids[0] != m2.ID {
		t.Fatalf("after remove: %v", ids)
	}

	// deleting a meal cascades its favorite rows
	if err := s.Meals().Delete(ctx, m2.ID); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
	for _, u := range []string{user, other} {
		ids, err := s.Favorites().ListMealIDs(ctx, u)
		if err != nil || len(ids) != 0 {
			t.Fatalf("favorites of %s after meal delete: ids=%v err=%v", u, ids, err)
		}
	}

	if err := s.Favorites().Add(ctx, other, m1.ID); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if err := s.Favorites().DeleteForUser(ctx, other); err != nil {
		t.Fatalf("DeleteForUser: %v", err)
	}
	if ids, _ := s.Favorites().ListMealIDs(ctx, other); len(ids) != 0 {
		t.Fatalf("DeleteForUser left %v", ids)
	}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	email := uuid.New().String() + "@example.test"

	u, err := s.Users().Create(ctx, &model.User{Email: email, PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.UserID == "" {
		t.Fatalf("CreateUser: empty id")
	}
	if _, err := s.Users().Create(ctx, &model.User{Email: email, PasswordHash: "other"}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate email: want ErrConflict, got %v", err)
	}
	got, err := s.Users().GetByEmail(ctx, email)
	if err != nil || got.UserID != u.UserID || got.PasswordHash != "hash" {
		t.Fatalf("GetByEmail: got=%+v err=%v", got, err)
	}
	if got, err := s.Users().Get(ctx, u.UserID); err != nil || got.Email != email {
		t.Fatalf("GetUser: got=%+v err=%v", got, err)
	}
	if err := s.Users().Delete(ctx, u.UserID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := s.Users().Get(ctx, u.UserID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser after delete: want ErrNotFound, got %v", err)
	}
}
