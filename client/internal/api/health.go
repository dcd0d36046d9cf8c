package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/FluffyKas/cooking-helper/client/internal/types"
)

// Health reads the service's aggregated health flag.
func Health(ctx context.Context, httpClient HTTPClient, baseURL string) (*types.HealthResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := newJSONRequest(ctx, http.MethodGet, fmt.Sprintf("%s/api/health", baseURL), nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, req, http.StatusOK, "health")
	if err != nil {
		return nil, err
	}
	var h types.HealthResponse
	if err := decodeJSON(resp, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
