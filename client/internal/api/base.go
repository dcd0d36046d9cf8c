package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	clienterrors "github.com/FluffyKas/cooking-helper/client/internal/errors"
	"github.com/FluffyKas/cooking-helper/client/internal/types"
)

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBody bounds how much of an error response is kept for diagnostics.
const maxErrorBody = 4 << 10

// newJSONRequest builds a request with an optional JSON body. The
// Authorization header is added by the transport layer.
func newJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and returns the response when its status is want. Any other
// status is turned into an error: 404 becomes types.ErrNotFound, the rest a
// classified HTTP error. Transport failures become recoverable network errors.
func do(httpClient HTTPClient, req *http.Request, want int, op string) (*http.Response, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, clienterrors.NewNetworkError(op, err)
	}
	if resp.StatusCode == want {
		return resp, nil
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode == http.StatusNotFound {
		return nil, types.ErrNotFound
	}
	return nil, clienterrors.NewHTTPError(resp.StatusCode, errorMessage(body), op)
}

// errorMessage extracts the service's message field, falling back to the raw body.
func errorMessage(body []byte) string {
	var er types.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Message != "" {
		return er.Message
	}
	return string(body)
}

func decodeJSON(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()
	return json.NewDecoder(resp.Body).Decode(out)
}
