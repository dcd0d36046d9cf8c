package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/FluffyKas/cooking-helper/server/internal/api/recovery"
	"github.com/FluffyKas/cooking-helper/server/internal/auth"
	"github.com/FluffyKas/cooking-helper/server/internal/services"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Meals      *services.MealService
	Favorites  *services.FavoriteService
	Accounts   *services.AccountService
	Nutrition  *services.NutritionService
	Authorizer auth.Authorizer
	Limiter    *ClientLimiter
	IsHealthy  func() bool
	Log        zerolog.Logger
}

// NewRouter wires every route to its handler.
func NewRouter(d Deps) *mux.Router {
	root := mux.NewRouter()
	root.Use(Observe(d.Log))
	root.Use(recovery.Middleware(d.Log))
	root.Use(SecurityHeaders)

	meals := NewMealHandler(d.Meals, d.Authorizer, d.Log)
	root.HandleFunc("/api/meals", meals.ListMeals).Methods(http.MethodGet)
	root.HandleFunc("/api/meals", meals.CreateMeal).Methods(http.MethodPost)
	root.HandleFunc("/api/meals/{id}", meals.GetMeal).Methods(http.MethodGet)
	root.HandleFunc("/api/meals/{id}", meals.UpdateMeal).Methods(http.MethodPut)
	root.HandleFunc("/api/meals/{id}", meals.DeleteMeal).Methods(http.MethodDelete)
	root.HandleFunc("/api/labels", meals.ListLabels).Methods(http.MethodGet)

	favs := NewFavoriteHandler(d.Favorites, d.Authorizer, d.Log)
	root.HandleFunc("/api/favorites", favs.ListFavorites).Methods(http.MethodGet)
	root.HandleFunc("/api/favorites/meals", favs.ListFavoriteMeals).Methods(http.MethodGet)
	root.HandleFunc("/api/favorites/{mealId}", favs.AddFavorite).Methods(http.MethodPut)
	root.HandleFunc("/api/favorites/{mealId}", favs.RemoveFavorite).Methods(http.MethodDelete)

	nut := NewNutritionHandler(d.Nutrition, d.Limiter, d.Log)
	root.HandleFunc("/api/nutrition", nut.Estimate).Methods(http.MethodPost)

	acct := NewAccountHandler(d.Accounts, d.Authorizer, d.Log)
	root.HandleFunc("/api/auth/signup", acct.Signup).Methods(http.MethodPost)
	root.HandleFunc("/api/auth/login", acct.Login).Methods(http.MethodPost)
	root.HandleFunc("/api/account", acct.DeleteAccount).Methods(http.MethodDelete)

	healthHandler := NewHealthHandler(d.IsHealthy)
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods(http.MethodGet)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return root
}
