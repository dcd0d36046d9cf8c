package api

import (
	"context"
	"net/http"
	"sync"
	"testing"

	clienterrors "github.com/FluffyKas/cooking-helper/client/internal/errors"
)

func TestListFavorites_Success(t *testing.T) {
	t.Parallel()
	url, hc := fakeService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"mealIds":["a","b"],"count":2}`))
	})
	got, err := ListFavorites(context.Background(), hc, url)
	if err != nil || len(got) != 2 {
		t.Fatalf("ListFavorites unexpected: got=%v err=%v", got, err)
	}
}

func TestListFavoriteMeals_Success(t *testing.T) {
	t.Parallel()
	url, hc := fakeService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/favorites/meals" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"meals":[{"id":"a","name":"Soup"}],"count":1}`))
	})
	got, err := ListFavoriteMeals(context.Background(), hc, url)
	if err != nil || len(got) != 1 || got[0].Name != "Soup" {
		t.Fatalf("ListFavoriteMeals unexpected: got=%v err=%v", got, err)
	}
}

func TestAddAndRemoveFavorite_Methods(t *testing.T) {
	t.Parallel()
	var (
		mu      sync.Mutex
		methods []string
	)
	url, hc := fakeService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/favorites/m1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	if err := AddFavorite(context.Background(), hc, url, "m1"); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if err := RemoveFavorite(context.Background(), hc, url, "m1"); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(methods) != 2 || methods[0] != http.MethodPut || methods[1] != http.MethodDelete {
		t.Fatalf("unexpected methods %v", methods)
	}
}

func TestAddFavorite_UnauthorizedIsIrrecoverable(t *testing.T) {
	t.Parallel()
	url, hc := fakeService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	err := AddFavorite(context.Background(), hc, url, "m1")
	if !clienterrors.IsIrrecoverable(err) || clienterrors.StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected irrecoverable 401, got %v", err)
	}
}

func TestRemoveFavorite_NetworkErrorIsRecoverable(t *testing.T) {
	t.Parallel()
	err := RemoveFavorite(context.Background(), &http.Client{Transport: failingTransport{}}, "http://meals.invalid", "m1")
	if err == nil || clienterrors.IsIrrecoverable(err) {
		t.Fatalf("expected recoverable network error, got %v", err)
	}
}

func TestAddAndRemoveFavorite_EscapesMealID(t *testing.T) {
	t.Parallel()
	var (
		mu    sync.Mutex
		paths []string
	)
	url, hc := fakeService(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.EscapedPath())
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	if err := AddFavorite(context.Background(), hc, url, "a b%c"); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if err := RemoveFavorite(context.Background(), hc, url, "50% off"); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	want := []string{"/api/favorites/a%20b%25c", "/api/favorites/50%25%20off"}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("unexpected paths %v, want %v", paths, want)
	}
}
