package api

import (
	"net/http"

	respond "github.com/FluffyKas/cooking-helper/server/internal/api/respond"
	"github.com/FluffyKas/cooking-helper/server/internal/auth"
)

// authenticate resolves the caller from the bearer token or writes a 401.
func authenticate(w http.ResponseWriter, r *http.Request, authorizer auth.Authorizer) (*auth.Principal, bool) {
	token, err := auth.ExtractBearerToken(r)
	if err != nil {
		respond.WriteUnauthorized(w, err.Error())
		return nil, false
	}
	p, err := authorizer.Authorize(r.Context(), token)
	if err != nil {
		respond.WriteUnauthorized(w, "invalid or expired token")
		return nil, false
	}
	return p, true
}
