package cart_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/apierr"
	"github.com/engpro/engpro-go/apitest"
	corecart "github.com/engpro/engpro-go/core/cart"
	"github.com/engpro/engpro-go/storage"
	cartstore "github.com/engpro/engpro-go/store/cart"
	"github.com/engpro/engpro-go/validate"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

type fakeSession struct {
	mu       sync.Mutex
	loggedIn bool
	hydrated chan struct{}
}

func newFakeSession(loggedIn bool) *fakeSession {
	s := &fakeSession{loggedIn: loggedIn, hydrated: make(chan struct{})}
	close(s.hydrated)
	return s
}

func (f *fakeSession) IsLoggedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loggedIn
}

func (f *fakeSession) Hydrated() <-chan struct{} { return f.hydrated }

// backend is the server-side cart the fake API serves from.
type backend struct {
	mu        sync.Mutex
	items     []corecart.Item
	failFetch bool
	onFetch   func()
}

func (b *backend) snapshot() corecart.Cart {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := make([]corecart.Item, len(b.items))
	copy(items, b.items)
	return corecart.Cart{Items: items, Summary: corecart.Summarize(items)}
}

func (b *backend) add(c corecart.Course) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, corecart.Item{Course: c, AddedAt: time.Now().UTC()})
}

func (b *backend) remove(courseID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, it := range b.items {
		if it.Course.ID == courseID {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

func (b *backend) clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = nil
}

type env struct {
	srv     *apitest.Server
	store   *cartstore.Store
	storage *storage.MemoryStore
	session *fakeSession
	backend *backend
	catalog map[string]corecart.Course
}

func newEnv(t *testing.T, loggedIn bool) *env {
	t.Helper()

	srv := apitest.New(t)
	c, err := api.New(api.Config{BaseURL: srv.URL, DisableBreaker: true})
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	session := newFakeSession(loggedIn)
	mem := storage.NewMemory()
	e := &env{
		srv:     srv,
		store:   cartstore.New(c, mem, session, log),
		storage: mem,
		session: session,
		backend: &backend{},
		catalog: map[string]corecart.Course{},
	}

	srv.Handle(http.MethodGet, "/cart", func(w http.ResponseWriter, r *http.Request) {
		e.backend.mu.Lock()
		fail := e.backend.failFetch
		observe := e.backend.onFetch
		e.backend.mu.Unlock()

		if observe != nil {
			observe()
		}
		if fail {
			apitest.RespondError(w, apierr.CodeInternalError, "boom", http.StatusInternalServerError)
			return
		}
		apitest.Respond(w, e.backend.snapshot(), http.StatusOK)
	})
	srv.Handle(http.MethodPut, "/cart/items", func(w http.ResponseWriter, r *http.Request) {
		var in corecart.ItemNew
		if err := apitest.Decode(r, &in); err != nil {
			apitest.RespondError(w, apierr.CodeValidationError, "bad body", http.StatusBadRequest)
			return
		}
		course, ok := e.catalog[in.CourseID]
		if !ok {
			apitest.RespondError(w, apierr.CodeNotFound, "no such course", http.StatusNotFound)
			return
		}
		e.backend.add(course)
		apitest.Respond(w, nil, http.StatusOK)
	})
	srv.Handle(http.MethodDelete, "/cart/items/{course_id}", func(w http.ResponseWriter, r *http.Request) {
		if !e.backend.remove(apitest.Param(r, "course_id")) {
			apitest.RespondError(w, apierr.CodeNotFound, "not in cart", http.StatusNotFound)
			return
		}
		apitest.Respond(w, nil, http.StatusOK)
	})
	srv.Handle(http.MethodDelete, "/cart", func(w http.ResponseWriter, r *http.Request) {
		e.backend.clear()
		apitest.Respond(w, nil, http.StatusNoContent)
	})

	return e
}

func (e *env) course(title string, priceCents int) corecart.Course {
	c := corecart.Course{ID: validate.GenerateID(), Title: title, PriceCents: priceCents, Currency: "USD"}
	e.catalog[c.ID] = c
	return c
}

func (e *env) checkInvariant(t *testing.T) {
	t.Helper()

	items := e.store.Items()
	sum := e.store.Summary()

	if sum.TotalPublishedCourses != len(items) {
		t.Fatalf("summary count %d != len(items) %d", sum.TotalPublishedCourses, len(items))
	}
	total := 0
	for _, it := range items {
		total += it.Course.PriceCents
	}
	if sum.TotalPriceCents != total {
		t.Fatalf("summary total %d != items total %d", sum.TotalPriceCents, total)
	}
}

func TestSummaryInvariantOverMutations(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	c1 := e.course("IELTS Foundation", 49900)
	c2 := e.course("TOEIC 700+", 79900)
	c3 := e.course("Giao tiếp cơ bản", 29900)

	steps := []func() error{
		func() error { return e.store.Add(ctx, c1.ID) },
		func() error { return e.store.Add(ctx, c2.ID) },
		func() error { return e.store.Remove(ctx, c1.ID) },
		func() error { return e.store.Add(ctx, c3.ID) },
		func() error { return e.store.Clear(ctx) },
		func() error { return e.store.Add(ctx, c1.ID) },
		func() error { return e.store.Fetch(ctx, true) },
	}

	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		e.checkInvariant(t)
	}

	if got := e.store.Count(); got != 1 {
		t.Fatalf("final count: got %d, want 1", got)
	}
	if !e.store.Contains(c1.ID) {
		t.Fatal("cart must contain the last added course")
	}
}

func TestFetchLoggedOutResetsWithoutNetwork(t *testing.T) {
	e := newEnv(t, false)

	if err := e.store.Fetch(context.Background(), true); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if got := e.store.Items(); len(got) != 0 {
		t.Fatalf("items must be empty, got %d", len(got))
	}
	want := corecart.Summary{TotalPublishedCourses: 0, TotalPriceCents: 0, Currency: "USD"}
	if diff := cmp.Diff(want, e.store.Summary()); diff != "" {
		t.Fatalf("summary (-want +got):\n%s", diff)
	}
	if e.store.IsLoading() {
		t.Fatal("isLoading must not be left true")
	}
	if got := e.srv.TotalCalls(); got != 0 {
		t.Fatalf("expected zero network calls, got %d", got)
	}
}

func TestAddRequiresLogin(t *testing.T) {
	e := newEnv(t, false)

	err := e.store.Add(context.Background(), validate.GenerateID())
	if !apierr.IsKind(err, apierr.AuthRequired) {
		t.Fatalf("kind: got %v, want AuthRequired", apierr.KindOf(err))
	}
	if got := e.srv.TotalCalls(); got != 0 {
		t.Fatalf("expected zero network calls, got %d", got)
	}
}

func TestFetchErrorResetsState(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	c1 := e.course("IELTS Foundation", 49900)
	if err := e.store.Add(ctx, c1.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	e.backend.mu.Lock()
	e.backend.failFetch = true
	e.backend.mu.Unlock()

	if err := e.store.Fetch(ctx, true); err == nil {
		t.Fatal("expected fetch error")
	}
	if len(e.store.Items()) != 0 {
		t.Fatal("error must reset items, not keep stale state")
	}
	if e.store.IsLoading() {
		t.Fatal("isLoading must not be left true")
	}
	e.checkInvariant(t)
}

func TestRemoveOptimisticThenReconciled(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	c1 := e.course("IELTS Foundation", 49900)
	c2 := e.course("TOEIC 700+", 79900)
	if err := e.store.Add(ctx, c1.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := e.store.Add(ctx, c2.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	// observe the store during the reconciling fetch: the optimistic
	// filter must already have applied by then
	var optimisticExcluded bool
	e.backend.mu.Lock()
	e.backend.onFetch = func() {
		optimisticExcluded = !e.store.Contains(c1.ID)
	}
	e.backend.mu.Unlock()

	if err := e.store.Remove(ctx, c1.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if !optimisticExcluded {
		t.Fatal("item must be excluded optimistically before the reconcile completes")
	}
	if e.store.Contains(c1.ID) {
		t.Fatal("removed course still present after reconcile")
	}

	want := e.backend.snapshot()
	if diff := cmp.Diff(want.Items, e.store.Items()); diff != "" {
		t.Fatalf("store must match server truth (-want +got):\n%s", diff)
	}
	e.checkInvariant(t)

	// removing the same id again: the server's answer decides
	e.backend.mu.Lock()
	e.backend.onFetch = nil
	e.backend.mu.Unlock()

	err := e.store.Remove(ctx, c1.ID)
	if !apierr.IsKind(err, apierr.NotFound) {
		t.Fatalf("second remove: got kind %v, want NotFound", apierr.KindOf(err))
	}
	if got := e.store.Count(); got != 1 {
		t.Fatalf("failed remove must leave state alone, count %d", got)
	}
}

func TestClearResetsWithoutRefetch(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	c1 := e.course("IELTS Foundation", 49900)
	if err := e.store.Add(ctx, c1.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	fetches := e.srv.Calls(http.MethodGet, "/cart")
	if err := e.store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if got := e.srv.Calls(http.MethodGet, "/cart"); got != fetches {
		t.Fatalf("clear must not re-fetch: %d extra calls", got-fetches)
	}
	if e.store.Count() != 0 {
		t.Fatal("clear must empty the cart")
	}
	e.checkInvariant(t)

	// persisted entry reflects the cleared cart
	b, err := e.storage.Get(storage.CartKey)
	if err != nil {
		t.Fatalf("reading persisted cart: %v", err)
	}
	var p struct {
		Items []corecart.Item `json:"items"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		t.Fatalf("decoding persisted cart: %v", err)
	}
	if len(p.Items) != 0 {
		t.Fatalf("persisted cart must be empty, got %d items", len(p.Items))
	}
}

func TestResetRemovesPersistedEntry(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	c1 := e.course("IELTS Foundation", 49900)
	if err := e.store.Add(ctx, c1.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := e.store.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, err := e.storage.Get(storage.CartKey); err != storage.ErrKeyNotFound {
		t.Fatalf("persisted entry must be removed, got %v", err)
	}
	if e.store.Count() != 0 {
		t.Fatal("reset must empty the cart")
	}
}

func TestHydrateLoggedInFetchesExactlyOnce(t *testing.T) {
	e := newEnv(t, true)

	c1 := e.course("IELTS Foundation", 49900)
	e.backend.add(c1)

	ctx := context.Background()
	if err := e.store.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if err := e.store.Hydrate(ctx); err != nil {
		t.Fatalf("second hydrate: %v", err)
	}

	if got := e.srv.Calls(http.MethodGet, "/cart"); got != 1 {
		t.Fatalf("hydration fetches: got %d, want exactly 1", got)
	}
	if !e.store.Contains(c1.ID) {
		t.Fatal("hydration must load server truth")
	}
	e.checkInvariant(t)
}

func TestHydrateLoggedOutResetsWithoutNetwork(t *testing.T) {
	e := newEnv(t, false)

	// a stale persisted cart from a previous session
	seed, _ := json.Marshal(map[string]any{
		"items": []corecart.Item{{Course: corecart.Course{ID: validate.GenerateID(), PriceCents: 100, Currency: "USD"}}},
		"summary": corecart.Summary{
			TotalPublishedCourses: 1, TotalPriceCents: 100, Currency: "USD",
		},
	})
	if err := e.storage.Set(storage.CartKey, seed); err != nil {
		t.Fatalf("seeding storage: %v", err)
	}

	if err := e.store.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	if got := e.srv.TotalCalls(); got != 0 {
		t.Fatalf("expected zero network calls, got %d", got)
	}
	if e.store.Count() != 0 {
		t.Fatal("logged-out hydration must hard-reset the cart")
	}
}

func TestHydrateWaitsForAuthBarrier(t *testing.T) {
	e := newEnv(t, true)

	// reopen the barrier: auth has not hydrated yet
	e.session.hydrated = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- e.store.Hydrate(context.Background()) }()

	select {
	case err := <-done:
		t.Fatalf("hydrate must block on the auth barrier, returned %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	if got := e.srv.Calls(http.MethodGet, "/cart"); got != 0 {
		t.Fatalf("no fetch may fire before the barrier, got %d", got)
	}

	close(e.session.hydrated)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("hydrate after barrier: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hydrate did not complete after the barrier opened")
	}

	if got := e.srv.Calls(http.MethodGet, "/cart"); got != 1 {
		t.Fatalf("hydration fetches: got %d, want exactly 1", got)
	}
}

func TestHydrateCancelledBeforeBarrier(t *testing.T) {
	e := newEnv(t, true)
	e.session.hydrated = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := e.store.Hydrate(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := e.srv.TotalCalls(); got != 0 {
		t.Fatalf("expected zero network calls, got %d", got)
	}
}

func TestFormattedTotal(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	empty := e.store.FormattedTotal()
	if empty == "" {
		t.Fatal("formatted total must never be empty")
	}

	c1 := e.course("IELTS Foundation", 49900)
	if err := e.store.Add(ctx, c1.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := e.store.FormattedTotal(); !strings.Contains(got, "499,00") {
		t.Fatalf("formatted total: got %q, want cents rendered exactly as 499,00", got)
	}

	// grouping and the decimal comma follow the vi locale
	c2 := e.course("TOEIC 700+", 79900)
	if err := e.store.Add(ctx, c2.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := e.store.FormattedTotal(); !strings.Contains(got, "1.298,00") {
		t.Fatalf("formatted total: got %q, want 1.298,00", got)
	}
}
