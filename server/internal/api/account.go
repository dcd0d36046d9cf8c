package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	respond "github.com/FluffyKas/cooking-helper/server/internal/api/respond"
	"github.com/FluffyKas/cooking-helper/server/internal/api/validate"
	"github.com/FluffyKas/cooking-helper/server/internal/auth"
	"github.com/FluffyKas/cooking-helper/server/internal/services"
)

// AccountHandler serves signup, login and account deletion.
type AccountHandler struct {
	svc        *services.AccountService
	authorizer auth.Authorizer
	log        zerolog.Logger
}

func NewAccountHandler(svc *services.AccountService, authorizer auth.Authorizer, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, authorizer: authorizer, log: log}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup POST /api/auth/signup
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.Credentials(req.Email, req.Password, services.MinPasswordLength); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	sess, err := h.svc.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.WriteDomainError(w, h.log, err, "")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, sess)
}

// Login POST /api/auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.WriteBadRequest(w, "email and password are required")
		return
	}
	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.WriteDomainError(w, h.log, err, "")
		return
	}
	respond.WriteJSON(w, http.StatusOK, sess)
}

// DeleteAccount DELETE /api/account
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	p, ok := authenticate(w, r, h.authorizer)
	if !ok {
		return
	}
	if err := h.svc.DeleteAccount(r.Context(), p.UserID); err != nil {
		respond.WriteDomainError(w, h.log, err, "")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
