package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	respond "github.com/FluffyKas/cooking-helper/server/internal/api/respond"
	"github.com/FluffyKas/cooking-helper/server/internal/auth"
	"github.com/FluffyKas/cooking-helper/server/internal/services"
)

// FavoriteHandler exposes the caller's favorites.
type FavoriteHandler struct {
	svc        *services.FavoriteService
	authorizer auth.Authorizer
	log        zerolog.Logger
}

func NewFavoriteHandler(svc *services.FavoriteService, authorizer auth.Authorizer, log zerolog.Logger) *FavoriteHandler {
	return &FavoriteHandler{svc: svc, authorizer: authorizer, log: log}
}

// ListFavorites GET /api/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	p, ok := authenticate(w, r, h.authorizer)
	if !ok {
		return
	}
	ids, err := h.svc.ListMealIDs(r.Context(), p.UserID)
	if err != nil {
		respond.WriteDomainError(w, h.log, err, "")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"mealIds": ids, "count": len(ids)})
}

// ListFavoriteMeals GET /api/favorites/meals
func (h *FavoriteHandler) ListFavoriteMeals(w http.ResponseWriter, r *http.Request) {
	p, ok := authenticate(w, r, h.authorizer)
	if !ok {
		return
	}
	meals, err := h.svc.ListMeals(r.Context(), p.UserID)
	if err != nil {
		respond.WriteDomainError(w, h.log, err, "")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"meals": meals, "count": len(meals)})
}

// AddFavorite PUT /api/favorites/{mealId}
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	p, ok := authenticate(w, r, h.authorizer)
	if !ok {
		return
	}
	if err := h.svc.Add(r.Context(), p.UserID, mux.Vars(r)["mealId"]); err != nil {
		respond.WriteDomainError(w, h.log, err, mealNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFavorite DELETE /api/favorites/{mealId}
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	p, ok := authenticate(w, r, h.authorizer)
	if !ok {
		return
	}
	if err := h.svc.Remove(r.Context(), p.UserID, mux.Vars(r)["mealId"]); err != nil {
		respond.WriteDomainError(w, h.log, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
