package store

import (
	"context"

	"github.com/FluffyKas/cooking-helper/server/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite, mongo).
type Store interface {
	Meals() Meals
	Favorites() Favorites
	Users() Users
}

// Meals persists recipes. List returns newest first.
type Meals interface {
	Create(ctx context.Context, m *model.Meal) (*model.Meal, error)
	Get(ctx context.Context, mealID string) (*model.Meal, error)
	List(ctx context.Context, req model.ListMealsRequest) (*model.MealPage, error)
	// Update replaces every mutable field of m.ID; owner and creation time are kept.
	Update(ctx context.Context, m *model.Meal) (*model.Meal, error)
	// Delete removes the meal and all favorite rows pointing at it.
	Delete(ctx context.Context, mealID string) error
	// Labels returns every label in use, sorted and unique.
	Labels(ctx context.Context) ([]string, error)
}

// Favorites persists (user, meal) pairs. At most one row exists per pair;
// Add on an existing pair and Remove on a missing pair are no-ops.
type Favorites interface {
	Add(ctx context.Context, userID, mealID string) error
	Remove(ctx context.Context, userID, mealID string) error
	ListMealIDs(ctx context.Context, userID string) ([]string, error)
	ListMeals(ctx context.Context, userID string) ([]*model.Meal, error)
	DeleteForUser(ctx context.Context, userID string) error
}

// Users persists accounts. Create returns model.ErrConflict for a taken email.
type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Delete(ctx context.Context, userID string) error
}
