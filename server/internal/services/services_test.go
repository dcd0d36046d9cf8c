package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/FluffyKas/cooking-helper/server/internal/auth"
	"github.com/FluffyKas/cooking-helper/server/internal/labelcache"
	"github.com/FluffyKas/cooking-helper/server/internal/model"
	"github.com/FluffyKas/cooking-helper/server/internal/store"
	"github.com/FluffyKas/cooking-helper/server/internal/store/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return sqlite.NewWithDB(db)
}

// countingCache records invalidations on top of an in-memory cache.
type countingCache struct {
	*labelcache.MemoryCache
	invalidations int
	sets          int
}

func (c *countingCache) Set(ctx context.Context, labels []string) error {
	c.sets++
	return c.MemoryCache.Set(ctx, labels)
}

func (c *countingCache) Invalidate(ctx context.Context) error {
	c.invalidations++
	return c.MemoryCache.Invalidate(ctx)
}

func TestMealService_CreateCanonicalizesAndDefaults(t *testing.T) {
	ctx := context.Background()
	cache := &countingCache{MemoryCache: labelcache.NewMemory(time.Minute)}
	svc := NewMealService(newTestStore(t), cache, zerolog.Nop())

	m, err := svc.CreateMeal(ctx, "alice", &model.Meal{
		ID:         "client-chosen",
		Name:       "Chili",
		Complexity: model.ComplexityMedium,
		Cuisine:    "Mexican",
		Labels:     []string{" spicy", "SPICY", "dinner", ""},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID == "client-chosen" || m.UserID != "alice" || m.Servings != 1 {
		t.Fatalf("unexpected meal %+v", m)
	}
	if !reflect.DeepEqual(m.Labels, []string{"Spicy", "Dinner"}) {
		t.Fatalf("labels not canonical: %v", m.Labels)
	}
	if cache.invalidations != 1 {
		t.Fatalf("expected one invalidation, got %d", cache.invalidations)
	}
}

func TestMealService_ListLabelsCachesUntilWrite(t *testing.T) {
	ctx := context.Background()
	cache := &countingCache{MemoryCache: labelcache.NewMemory(time.Minute)}
	svc := NewMealService(newTestStore(t), cache, zerolog.Nop())

	if _, err := svc.CreateMeal(ctx, "alice", &model.Meal{Name: "a", Complexity: model.ComplexityEasy, Cuisine: "x", Labels: []string{"quick"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 3; i++ {
		labels, err := svc.ListLabels(ctx)
		if err != nil || !reflect.DeepEqual(labels, []string{"Quick"}) {
			t.Fatalf("labels=%v err=%v", labels, err)
		}
	}
	if cache.sets != 1 {
		t.Fatalf("expected a single cache fill, got %d", cache.sets)
	}

	if _, err := svc.CreateMeal(ctx, "alice", &model.Meal{Name: "b", Complexity: model.ComplexityEasy, Cuisine: "x", Labels: []string{"vegan"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	labels, _ := svc.ListLabels(ctx)
	if !reflect.DeepEqual(labels, []string{"Quick", "Vegan"}) {
		t.Fatalf("stale labels after write: %v", labels)
	}
}

func TestMealService_OwnerChecks(t *testing.T) {
	ctx := context.Background()
	svc := NewMealService(newTestStore(t), labelcache.NewMemory(time.Minute), zerolog.Nop())

	m, err := svc.CreateMeal(ctx, "alice", &model.Meal{Name: "Soup", Complexity: model.ComplexityEasy, Cuisine: "French"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	upd := &model.Meal{Name: "Better Soup", Complexity: model.ComplexityHard, Cuisine: "French"}
	if _, err := svc.UpdateMeal(ctx, "bob", m.ID, upd); !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("update by non-owner: want ErrForbidden, got %v", err)
	}
	if err := svc.DeleteMeal(ctx, "bob", m.ID); !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("delete by non-owner: want ErrForbidden, got %v", err)
	}

	out, err := svc.UpdateMeal(ctx, "alice", m.ID, upd)
	if err != nil {
		t.Fatalf("update by owner: %v", err)
	}
	if out.ID != m.ID || out.Name != "Better Soup" || out.UserID != "alice" {
		t.Fatalf("unexpected update result %+v", out)
	}

	if _, err := svc.UpdateMeal(ctx, "alice", "missing", upd); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("update missing: want ErrNotFound, got %v", err)
	}
	if err := svc.DeleteMeal(ctx, "alice", m.ID); err != nil {
		t.Fatalf("delete by owner: %v", err)
	}
}

func TestFavoriteService_AddRequiresMeal(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	meals := NewMealService(st, labelcache.NewMemory(time.Minute), zerolog.Nop())
	favs := NewFavoriteService(st)

	if err := favs.Add(ctx, "alice", "nope"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("favorite unknown meal: want ErrNotFound, got %v", err)
	}
	m, _ := meals.CreateMeal(ctx, "bob", &model.Meal{Name: "Pie", Complexity: model.ComplexityEasy, Cuisine: "British"})
	if err := favs.Add(ctx, "alice", m.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := favs.Add(ctx, "alice", m.ID); err != nil {
		t.Fatalf("duplicate add must be a no-op: %v", err)
	}
	ids, _ := favs.ListMealIDs(ctx, "alice")
	if !reflect.DeepEqual(ids, []string{m.ID}) {
		t.Fatalf("ids=%v", ids)
	}
	if err := favs.Remove(ctx, "alice", m.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := favs.Remove(ctx, "alice", m.ID); err != nil {
		t.Fatalf("second remove must be a no-op: %v", err)
	}
}

func TestAccountService_SignupLoginDelete(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	svc := NewAccountService(st, issuer, zerolog.Nop())
	svc.cost = bcrypt.MinCost

	if _, err := svc.Signup(ctx, "cook@example.test", "short"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("short password: want ErrValidation, got %v", err)
	}
	sess, err := svc.Signup(ctx, " Cook@Example.test ", "long-enough")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if sess.Email != "cook@example.test" || sess.Token == "" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if p, err := issuer.Verify(sess.Token); err != nil || p.UserID != sess.UserID {
		t.Fatalf("token does not verify: p=%+v err=%v", p, err)
	}
	if _, err := svc.Signup(ctx, "cook@example.test", "another-one"); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate signup: want ErrConflict, got %v", err)
	}

	if _, err := svc.Login(ctx, "cook@example.test", "wrong-password"); !errors.Is(err, model.ErrUnauthorized) {
		t.Fatalf("bad password: want ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.test", "long-enough"); !errors.Is(err, model.ErrUnauthorized) {
		t.Fatalf("unknown email: want ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, "COOK@example.test", "long-enough"); err != nil {
		t.Fatalf("login: %v", err)
	}

	meal, err := st.Meals().Create(ctx, &model.Meal{UserID: sess.UserID, Name: "Stew", Complexity: model.ComplexityEasy, Cuisine: "Irish", Servings: 2})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if err := st.Favorites().Add(ctx, sess.UserID, meal.ID); err != nil {
		t.Fatalf("add favorite: %v", err)
	}

	if err := svc.DeleteAccount(ctx, sess.UserID); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if ids, _ := st.Favorites().ListMealIDs(ctx, sess.UserID); len(ids) != 0 {
		t.Fatalf("favorites survived account deletion: %v", ids)
	}
	if _, err := st.Users().Get(ctx, sess.UserID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("user survived deletion: %v", err)
	}
	if _, err := st.Meals().Get(ctx, meal.ID); err != nil {
		t.Fatalf("authored meal should be kept: %v", err)
	}
}

func TestAccountService_EnsureUserIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewAccountService(st, auth.NewTokenIssuer("secret", time.Hour), zerolog.Nop())
	for i := 0; i < 2; i++ {
		if err := svc.EnsureUser(ctx, auth.LocalDevUserID, auth.LocalDevEmail); err != nil {
			t.Fatalf("EnsureUser #%d: %v", i, err)
		}
	}
	// password-less accounts cannot log in
	if _, err := svc.Login(ctx, auth.LocalDevEmail, ""); !errors.Is(err, model.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

type fakeEstimator struct {
	got []string
	out model.Nutrition
}

func (f *fakeEstimator) Estimate(_ context.Context, ingredients []string) (model.Nutrition, error) {
	f.got = ingredients
	return f.out, nil
}

func TestNutritionService_Estimate(t *testing.T) {
	est := &fakeEstimator{out: model.Nutrition{Calories: 400}}
	svc := NewNutritionService(est)

	if _, err := svc.Estimate(context.Background(), []string{" ", ""}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("blank ingredients: want ErrValidation, got %v", err)
	}
	got, err := svc.Estimate(context.Background(), []string{" egg ", "", "milk"})
	if err != nil || got.Calories != 400 {
		t.Fatalf("got %+v err=%v", got, err)
	}
	if !reflect.DeepEqual(est.got, []string{"egg", "milk"}) {
		t.Fatalf("estimator saw %v", est.got)
	}
}
