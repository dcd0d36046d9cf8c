package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	clienterrors "github.com/FluffyKas/cooking-helper/client/internal/errors"
	"github.com/FluffyKas/cooking-helper/client/internal/types"
)

func TestListMeals_SendsPagingAndDecodes(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/meals" || r.URL.Query().Get("limit") != "20" || r.URL.Query().Get("offset") != "40" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_ = json.NewEncoder(w).Encode(types.MealPage{Meals: []types.Meal{{ID: "m1", Name: "Soup"}}, Total: 41, HasMore: false})
	}))
	defer srv.Close()

	page, err := ListMeals(context.Background(), srv.Client(), srv.URL, 20, 40)
	if err != nil {
		t.Fatalf("ListMeals: %v", err)
	}
	if len(page.Meals) != 1 || page.Total != 41 || page.HasMore {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestListMeals_NilMealsBecomeEmpty(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meals":null,"total":0,"hasMore":false}`))
	}))
	defer srv.Close()

	page, err := ListMeals(context.Background(), srv.Client(), srv.URL, 20, 0)
	if err != nil || page.Meals == nil {
		t.Fatalf("expected empty non-nil meals, got %+v err=%v", page, err)
	}
}

func TestListMeals_InvalidPaging(t *testing.T) {
	t.Parallel()
	if _, err := ListMeals(context.Background(), http.DefaultClient, "http://unused", 0, 0); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestListMeals_ServerErrorIsRecoverable(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error","code":500,"message":"db down"}`))
	}))
	defer srv.Close()

	_, err := ListMeals(context.Background(), srv.Client(), srv.URL, 20, 0)
	var ce *clienterrors.ClassifiedError
	if !errors.As(err, &ce) || ce.Category != clienterrors.Recoverable || ce.Message != "db down" {
		t.Fatalf("expected recoverable classified error with message, got %v", err)
	}
}

func TestListMeals_NetworkError(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Transport: failingTransport{}}
	_, err := ListMeals(context.Background(), hc, "http://example", 20, 0)
	var ce *clienterrors.ClassifiedError
	if !errors.As(err, &ce) || ce.Category != clienterrors.Recoverable || ce.StatusCode != 0 {
		t.Fatalf("expected recoverable network error, got %v", err)
	}
}

func TestListMeals_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ListMeals(ctx, http.DefaultClient, "http://unused", 20, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGetMeal_NotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not Found","code":404,"message":"Meal not found"}`))
	}))
	defer srv.Close()

	if _, err := GetMeal(context.Background(), srv.Client(), srv.URL, "gone"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMeal_RejectsBlankID(t *testing.T) {
	t.Parallel()
	if _, err := GetMeal(context.Background(), http.DefaultClient, "http://unused", " "); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCreateMeal_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		var in types.Meal
		_ = json.NewDecoder(r.Body).Decode(&in)
		in.ID = "new-id"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(types.MealEnvelope{Success: true, Meal: &in})
	}))
	defer srv.Close()

	got, err := CreateMeal(context.Background(), srv.Client(), srv.URL, types.Meal{ID: "ignored", Name: "Soup", Complexity: "easy", Cuisine: "French"})
	if err != nil || got.ID != "new-id" || got.Name != "Soup" {
		t.Fatalf("CreateMeal unexpected: got=%+v err=%v", got, err)
	}
}

func TestCreateMeal_ValidationErrorIsIrrecoverable(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Bad Request","code":400,"message":"name is required"}`))
	}))
	defer srv.Close()

	_, err := CreateMeal(context.Background(), srv.Client(), srv.URL, types.Meal{})
	if !clienterrors.IsIrrecoverable(err) {
		t.Fatalf("expected irrecoverable error, got %v", err)
	}
}

func TestUpdateMeal_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/meals/m1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(types.MealEnvelope{Success: true, Meal: &types.Meal{ID: "m1", Name: "Stew"}})
	}))
	defer srv.Close()

	got, err := UpdateMeal(context.Background(), srv.Client(), srv.URL, "m1", types.Meal{Name: "Stew"})
	if err != nil || got.Name != "Stew" {
		t.Fatalf("UpdateMeal unexpected: got=%+v err=%v", got, err)
	}
}

func TestDeleteMeal_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	if err := DeleteMeal(context.Background(), srv.Client(), srv.URL, "m1"); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
}

func TestListLabels_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"labels":["Dinner","Quick"]}`))
	}))
	defer srv.Close()
	got, err := ListLabels(context.Background(), srv.Client(), srv.URL)
	if err != nil || len(got) != 2 || got[0] != "Dinner" {
		t.Fatalf("ListLabels unexpected: got=%v err=%v", got, err)
	}
}

func TestMealByID_EscapesMealID(t *testing.T) {
	t.Parallel()
	var (
		mu    sync.Mutex
		paths []string
	)
	url, hc := fakeService(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.EscapedPath())
		mu.Unlock()
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = w.Write([]byte(`{"id":"x y%z","name":"Soup"}`))
		}
	})

	ctx := context.Background()
	if _, err := GetMeal(ctx, hc, url, "x y%z"); err != nil {
		t.Fatalf("GetMeal: %v", err)
	}
	if _, err := UpdateMeal(ctx, hc, url, "x y%z", types.Meal{Name: "Soup", Ingredients: []string{"water"}, Instructions: "boil"}); err != nil {
		t.Fatalf("UpdateMeal: %v", err)
	}
	if err := DeleteMeal(ctx, hc, url, "x y%z"); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	want := []string{
		"GET /api/meals/x%20y%25z",
		"PUT /api/meals/x%20y%25z",
		"DELETE /api/meals/x%20y%25z",
	}
	if len(paths) != len(want) {
		t.Fatalf("unexpected paths %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("path %d = %s, want %s", i, paths[i], want[i])
		}
	}
}
