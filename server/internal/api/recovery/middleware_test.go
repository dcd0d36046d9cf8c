package recovery

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestMiddlewarePanic verifies that a panic inside the handler results in 500.
func TestMiddlewarePanic(t *testing.T) {
	var logs bytes.Buffer
	h := Middleware(zerolog.New(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/api/meals", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if body, _ := io.ReadAll(rr.Body); !strings.Contains(string(body), `"code":500`) {
		t.Fatalf("expected JSON error body, got %s", body)
	}
	if !strings.Contains(logs.String(), "panic recovered") || !strings.Contains(logs.String(), "/api/meals") {
		t.Fatalf("panic not logged: %s", logs.String())
	}
}

// TestMiddlewarePassThru verifies regular handler passes untouched.
func TestMiddlewarePassThru(t *testing.T) {
	h := Middleware(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestMiddlewarePanicAfterWrite(t *testing.T) {
	var logs bytes.Buffer
	h := Middleware(zerolog.New(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		panic("late")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/api/meals", nil))

	if rr.Code != http.StatusCreated || rr.Body.Len() != 0 {
		t.Fatalf("committed response must be left alone, got %d %q", rr.Code, rr.Body.String())
	}
	if !strings.Contains(logs.String(), `"response_started":true`) {
		t.Fatalf("expected response_started in log: %s", logs.String())
	}
}
