package listing

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"sync"
	"testing"
	"time"
)

// fakeStore serves pages out of a fixed, newest-first slice.
type fakeStore struct {
	mu      sync.Mutex
	meals   []Meal
	total   int // reported total; defaults to len(meals)
	err     error
	block   chan struct{} // when set, ListMeals waits for it to close
	entered chan struct{} // when set, signalled as ListMeals starts
	calls   []int         // offsets requested
}

func newFakeStore(n int) *fakeStore {
	meals := make([]Meal, n)
	for i := range meals {
		meals[i] = Meal{ID: fmt.Sprintf("m%02d", i), Name: fmt.Sprintf("Meal %d", i), Complexity: "easy", Cuisine: "Italian"}
	}
	return &fakeStore{meals: meals, total: -1}
}

func (s *fakeStore) ListMeals(ctx context.Context, limit, offset int) (*Page, error) {
	s.mu.Lock()
	s.calls = append(s.calls, offset)
	block, entered := s.block, s.entered
	s.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	total := s.total
	if total < 0 {
		total = len(s.meals)
	}
	end := offset + limit
	if end > len(s.meals) {
		end = len(s.meals)
	}
	var page []Meal
	if offset < end {
		page = append(page, s.meals[offset:end]...)
	}
	return &Page{Meals: page, Total: total, HasMore: offset+len(page) < total}, nil
}

func (s *fakeStore) offsets() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.calls...)
}

func seeded() Option { return WithRand(rand.New(rand.NewPCG(1, 2))) }

func TestLoadMore_TwentyFiveMealScenario(t *testing.T) {
	t.Parallel()
	store := newFakeStore(25)
	e := New(store, WithPageSize(20))
	e.Initialize(store.meals[:20], 25, true)

	if err := e.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	snap := e.Snapshot()
	if len(snap.Meals) != 25 || snap.HasMore || snap.Total != 25 || snap.Offset != 25 {
		t.Fatalf("unexpected snapshot after second page: len=%d hasMore=%v total=%d offset=%d",
			len(snap.Meals), snap.HasMore, snap.Total, snap.Offset)
	}
	if got := store.offsets(); !reflect.DeepEqual(got, []int{20}) {
		t.Fatalf("expected one fetch at offset 20, got %v", got)
	}
	for i, m := range snap.Meals {
		if m.ID != store.meals[i].ID {
			t.Fatalf("order not preserved at %d: %s", i, m.ID)
		}
	}

	if err := e.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore without more: %v", err)
	}
	if len(store.offsets()) != 1 {
		t.Fatalf("LoadMore with hasMore=false must not fetch")
	}
	if !reflect.DeepEqual(e.Snapshot(), snap) {
		t.Fatalf("snapshot changed by a no-op LoadMore")
	}
}

func TestLoadMore_GrowsAndNeverExceedsTotal(t *testing.T) {
	t.Parallel()
	store := newFakeStore(47)
	e := New(store, WithPageSize(10))
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	prev := len(e.Snapshot().Meals)
	for e.HasMore() {
		if err := e.LoadMore(context.Background()); err != nil {
			t.Fatalf("LoadMore: %v", err)
		}
		snap := e.Snapshot()
		if len(snap.Meals) <= prev {
			t.Fatalf("snapshot did not grow: %d -> %d", prev, len(snap.Meals))
		}
		if len(snap.Meals) > snap.Total {
			t.Fatalf("snapshot %d exceeds total %d", len(snap.Meals), snap.Total)
		}
		prev = len(snap.Meals)
	}
	if prev != 47 {
		t.Fatalf("expected all 47 meals, got %d", prev)
	}
}

func TestLoadMore_ShortPageAdvancesByReturnedCount(t *testing.T) {
	t.Parallel()
	store := newFakeStore(30)
	store.total = 40 // store claims more than it returns
	e := New(store, WithPageSize(20))
	e.Initialize(store.meals[:20], 40, true)

	if err := e.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if snap := e.Snapshot(); snap.Offset != 30 || len(snap.Meals) != 30 || !snap.HasMore {
		t.Fatalf("expected offset 30 with more, got offset=%d len=%d hasMore=%v", snap.Offset, len(snap.Meals), snap.HasMore)
	}
}

func TestLoadMore_FailureLeavesSnapshotUnchanged(t *testing.T) {
	t.Parallel()
	store := newFakeStore(25)
	store.err = errors.New("network down")
	e := New(store, WithPageSize(20))
	e.Initialize(store.meals[:20], 25, true)
	before := e.Snapshot()

	if err := e.LoadMore(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if !reflect.DeepEqual(e.Snapshot(), before) {
		t.Fatalf("snapshot changed after failed fetch")
	}
	if e.Loading() {
		t.Fatal("guard must be released after failure")
	}

	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()
	if err := e.LoadMore(context.Background()); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if len(e.Snapshot().Meals) != 25 {
		t.Fatalf("expected recovery on the next trigger")
	}
}

func TestLoadMore_SmallerTotalIsTrustedWithoutTruncation(t *testing.T) {
	t.Parallel()
	store := newFakeStore(25)
	store.total = 22
	e := New(store, WithPageSize(20))
	e.Initialize(store.meals[:20], 25, true)

	if err := e.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	snap := e.Snapshot()
	if snap.Total != 22 || len(snap.Meals) != 25 || snap.HasMore {
		t.Fatalf("expected total 22 trusted with all 25 kept, got total=%d len=%d hasMore=%v", snap.Total, len(snap.Meals), snap.HasMore)
	}
}

func TestLoadMore_ConcurrentCallDropped(t *testing.T) {
	t.Parallel()
	store := newFakeStore(60)
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 4)
	e := New(store, WithPageSize(20))
	e.Initialize(store.meals[:20], 60, true)

	done := make(chan error, 1)
	go func() { done <- e.LoadMore(context.Background()) }()
	<-store.entered

	if err := e.LoadMore(context.Background()); !errors.Is(err, ErrLoadInFlight) {
		t.Fatalf("expected ErrLoadInFlight, got %v", err)
	}
	if e.OnProximity(context.Background(), 0) {
		t.Fatal("proximity trigger must be dropped while a fetch is in flight")
	}

	close(store.block)
	if err := <-done; err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if got := store.offsets(); !reflect.DeepEqual(got, []int{20}) {
		t.Fatalf("expected exactly one fetch, got %v", got)
	}
	if len(e.Snapshot().Meals) != 40 {
		t.Fatalf("expected 40 meals, got %d", len(e.Snapshot().Meals))
	}
}

func TestOnProximity_FiresOnceWithinMargin(t *testing.T) {
	t.Parallel()
	store := newFakeStore(25)
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 4)
	e := New(store, WithPageSize(20), WithProximityMargin(3))
	e.Initialize(store.meals[:20], 25, true)

	if e.OnProximity(context.Background(), 4) {
		t.Fatal("must not fire outside the margin")
	}
	if !e.OnProximity(context.Background(), 3) {
		t.Fatal("expected fetch to start within the margin")
	}
	<-store.entered
	for i := 0; i < 5; i++ {
		if e.OnProximity(context.Background(), 0) {
			t.Fatal("second trigger while in flight must be dropped")
		}
	}
	close(store.block)

	deadline := time.Now().Add(2 * time.Second)
	for e.Loading() {
		if time.Now().After(deadline) {
			t.Fatal("fetch never settled")
		}
		time.Sleep(time.Millisecond)
	}
	if snap := e.Snapshot(); len(snap.Meals) != 25 || snap.HasMore {
		t.Fatalf("unexpected snapshot: len=%d hasMore=%v", len(snap.Meals), snap.HasMore)
	}
	if e.OnProximity(context.Background(), 0) {
		t.Fatal("must not fire when nothing more to load")
	}
	if got := store.offsets(); len(got) != 1 {
		t.Fatalf("expected exactly one fetch, got %v", got)
	}
}

func TestInitialize_DiscardsStaleFetch(t *testing.T) {
	t.Parallel()
	store := newFakeStore(40)
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 1)
	e := New(store, WithPageSize(20))
	e.Initialize(store.meals[:20], 40, true)

	done := make(chan error, 1)
	go func() { done <- e.LoadMore(context.Background()) }()
	<-store.entered

	e.Initialize(store.meals[:5], 40, true)
	close(store.block)
	if err := <-done; err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if snap := e.Snapshot(); len(snap.Meals) != 5 || snap.Offset != 5 {
		t.Fatalf("stale page applied to new snapshot: len=%d offset=%d", len(snap.Meals), snap.Offset)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	t.Parallel()
	store := newFakeStore(3)
	e := New(store)
	e.Initialize(store.meals, 3, false)
	snap := e.Snapshot()
	snap.Meals[0].Name = "changed"
	if e.Snapshot().Meals[0].Name == "changed" {
		t.Fatal("Snapshot must not expose internal state")
	}
}
