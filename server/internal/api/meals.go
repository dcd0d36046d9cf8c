package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	respond "github.com/FluffyKas/cooking-helper/server/internal/api/respond"
	"github.com/FluffyKas/cooking-helper/server/internal/api/validate"
	"github.com/FluffyKas/cooking-helper/server/internal/auth"
	"github.com/FluffyKas/cooking-helper/server/internal/model"
	"github.com/FluffyKas/cooking-helper/server/internal/services"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	mealNotFound    = "Meal not found"
)

// MealHandler is a thin HTTP transport over MealService.
type MealHandler struct {
	svc        *services.MealService
	authorizer auth.Authorizer
	log        zerolog.Logger
}

func NewMealHandler(svc *services.MealService, authorizer auth.Authorizer, log zerolog.Logger) *MealHandler {
	return &MealHandler{svc: svc, authorizer: authorizer, log: log}
}

type mealEnvelope struct {
	Success bool        `json:"success"`
	Meal    *model.Meal `json:"meal"`
}

// parsePaging reads limit/offset; limit defaults to DefaultPageSize and is capped at MaxPageSize.
func parsePaging(r *http.Request) (model.ListMealsRequest, string) {
	req := model.ListMealsRequest{Limit: DefaultPageSize}
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, "limit must be a positive integer"
		}
		if n > MaxPageSize {
			n = MaxPageSize
		}
		req.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, "offset must be a non-negative integer"
		}
		req.Offset = n
	}
	return req, ""
}

// ListMeals GET /api/meals?limit&offset
func (h *MealHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	req, msg := parsePaging(r)
	if msg != "" {
		respond.WriteBadRequest(w, msg)
		return
	}
	page, err := h.svc.ListMeals(r.Context(), req)
	if err != nil {
		respond.WriteDomainError(w, h.log, err, mealNotFound)
		return
	}
	respond.WriteJSON(w, http.StatusOK, page)
}

// GetMeal GET /api/meals/{id}
func (h *MealHandler) GetMeal(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetMeal(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteDomainError(w, h.log, err, mealNotFound)
		return
	}
	respond.WriteJSON(w, http.StatusOK, m)
}

func decodeMeal(w http.ResponseWriter, r *http.Request) (*model.Meal, bool) {
	var m model.Meal
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return nil, false
	}
	if err := validate.Meal(&m); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return nil, false
	}
	return &m, true
}

// CreateMeal POST /api/meals
func (h *MealHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	p, ok := authenticate(w, r, h.authorizer)
	if !ok {
		return
	}
	m, ok := decodeMeal(w, r)
	if !ok {
		return
	}
	out, err := h.svc.CreateMeal(r.Context(), p.UserID, m)
	if err != nil {
		respond.WriteDomainError(w, h.log, err, mealNotFound)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, mealEnvelope{Success: true, Meal: out})
}

// UpdateMeal PUT /api/meals/{id}
func (h *MealHandler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	p, ok := authenticate(w, r, h.authorizer)
	if !ok {
		return
	}
	m, ok := decodeMeal(w, r)
	if !ok {
		return
	}
	out, err := h.svc.UpdateMeal(r.Context(), p.UserID, mux.Vars(r)["id"], m)
	if err != nil {
		respond.WriteDomainError(w, h.log, err, mealNotFound)
		return
	}
	respond.WriteJSON(w, http.StatusOK, mealEnvelope{Success: true, Meal: out})
}

// DeleteMeal DELETE /api/meals/{id}
func (h *MealHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	p, ok := authenticate(w, r, h.authorizer)
	if !ok {
		return
	}
	if err := h.svc.DeleteMeal(r.Context(), p.UserID, mux.Vars(r)["id"]); err != nil {
		respond.WriteDomainError(w, h.log, err, mealNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLabels GET /api/labels
func (h *MealHandler) ListLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := h.svc.ListLabels(r.Context())
	if err != nil {
		respond.WriteDomainError(w, h.log, err, "")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"labels": labels})
}
