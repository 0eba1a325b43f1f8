package auth_test

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/apierr"
	"github.com/engpro/engpro-go/apitest"
	"github.com/engpro/engpro-go/core/user"
	"github.com/engpro/engpro-go/storage"
	authstore "github.com/engpro/engpro-go/store/auth"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

type env struct {
	srv     *apitest.Server
	store   *authstore.Store
	storage *storage.MemoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()

	srv := apitest.New(t)
	c, err := api.New(api.Config{BaseURL: srv.URL, DisableBreaker: true})
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	mem := storage.NewMemory()
	return &env{
		srv:     srv,
		store:   authstore.New(c, mem, log),
		storage: mem,
	}
}

func (e *env) handleLogin() {
	e.srv.Handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "engpro_session", Value: "sess", Path: "/"})
		apitest.Respond(w, nil, http.StatusOK)
	})
}

func (e *env) handleCurrentUser(u user.User) {
	e.srv.Handle(http.MethodGet, "/users/current", func(w http.ResponseWriter, r *http.Request) {
		apitest.Respond(w, u, http.StatusOK)
	})
}

type fakeCart struct {
	fetches atomic.Int32
	resets  atomic.Int32
}

func (f *fakeCart) Fetch(ctx context.Context, force bool) error {
	f.fetches.Add(1)
	return nil
}

func (f *fakeCart) Reset() error {
	f.resets.Add(1)
	return nil
}

func TestLoginFetchesUserAndRefreshesCart(t *testing.T) {
	e := newEnv(t)
	e.handleLogin()
	e.handleCurrentUser(user.User{ID: "u1", Name: "Lan", Email: "lan@engpro.vn", Role: user.RoleStudent})

	cart := &fakeCart{}
	e.store.AttachCart(cart)

	if err := e.store.Login(context.Background(), "lan@engpro.vn", "pass123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if !e.store.IsLoggedIn() {
		t.Fatal("expected logged-in state")
	}
	u, ok := e.store.User()
	if !ok || u.ID != "u1" {
		t.Fatalf("unexpected user: %+v ok=%v", u, ok)
	}
	if got := cart.fetches.Load(); got != 1 {
		t.Fatalf("cart fetches: got %d, want 1", got)
	}

	// persisted entry must reflect the session
	b, err := e.storage.Get(storage.AuthKey)
	if err != nil {
		t.Fatalf("reading persisted auth: %v", err)
	}
	var p struct {
		User       *user.User `json:"user"`
		IsLoggedIn bool       `json:"isLoggedIn"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		t.Fatalf("decoding persisted auth: %v", err)
	}
	if !p.IsLoggedIn || p.User == nil || p.User.ID != "u1" {
		t.Fatalf("unexpected persisted auth: %+v", p)
	}
}

func TestLoginSucceedsWhenCartRefreshFails(t *testing.T) {
	e := newEnv(t)
	e.handleLogin()
	e.handleCurrentUser(user.User{ID: "u1"})

	failing := &failingCart{}
	e.store.AttachCart(failing)

	if err := e.store.Login(context.Background(), "lan@engpro.vn", "pass123"); err != nil {
		t.Fatalf("cart failure must not fail login: %v", err)
	}
	if !e.store.IsLoggedIn() {
		t.Fatal("expected logged-in state")
	}
}

type failingCart struct{}

func (f *failingCart) Fetch(ctx context.Context, force bool) error {
	return apierr.Network(context.DeadlineExceeded)
}

func (f *failingCart) Reset() error { return nil }

func TestFetchUserFailureInvalidatesSession(t *testing.T) {
	e := newEnv(t)
	e.handleLogin()

	calls := 0
	e.srv.Handle(http.MethodGet, "/users/current", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			apitest.Respond(w, user.User{ID: "u1"}, http.StatusOK)
			return
		}
		apitest.RespondError(w, apierr.CodeUnauthorized, "session expired", http.StatusUnauthorized)
	})

	ctx := context.Background()
	if err := e.store.Login(ctx, "lan@engpro.vn", "pass123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// any fetch failure, even transient, deauthenticates locally
	if err := e.store.FetchUser(ctx, true); err == nil {
		t.Fatal("expected fetch error")
	}
	if e.store.IsLoggedIn() {
		t.Fatal("fetch failure must clear the login flag")
	}
	if _, ok := e.store.User(); ok {
		t.Fatal("fetch failure must clear the user")
	}
}

func TestFetchUserNoopWhenLoggedOut(t *testing.T) {
	e := newEnv(t)

	if err := e.store.FetchUser(context.Background(), true); err != nil {
		t.Fatalf("fetch while logged out must be a no-op: %v", err)
	}
	if got := e.srv.TotalCalls(); got != 0 {
		t.Fatalf("expected zero network calls, got %d", got)
	}
}

func TestLogoutClearsLocalEvenWhenRemoteFails(t *testing.T) {
	e := newEnv(t)
	e.handleLogin()
	e.handleCurrentUser(user.User{ID: "u1"})
	e.srv.Handle(http.MethodPost, "/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		apitest.RespondError(w, apierr.CodeInternalError, "boom", http.StatusInternalServerError)
	})

	cart := &fakeCart{}
	e.store.AttachCart(cart)

	ctx := context.Background()
	if err := e.store.Login(ctx, "lan@engpro.vn", "pass123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := e.store.Logout(ctx); err != nil {
		t.Fatalf("logout must not surface the remote failure: %v", err)
	}

	if e.store.IsLoggedIn() {
		t.Fatal("logout must clear the login flag")
	}
	if _, ok := e.store.User(); ok {
		t.Fatal("logout must clear the user")
	}
	if got := cart.resets.Load(); got != 1 {
		t.Fatalf("cart resets: got %d, want 1", got)
	}
}

func TestUpdateUserMergesReturnedFields(t *testing.T) {
	e := newEnv(t)
	e.handleLogin()
	e.handleCurrentUser(user.User{ID: "u1", Name: "Lan", Email: "lan@engpro.vn", Role: user.RoleStudent})
	e.srv.Handle(http.MethodPut, "/users/current", func(w http.ResponseWriter, r *http.Request) {
		// server echoes only the changed field
		apitest.Respond(w, map[string]string{"name": "Lan Phạm"}, http.StatusOK)
	})

	ctx := context.Background()
	if err := e.store.Login(ctx, "lan@engpro.vn", "pass123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	name := "Lan Phạm"
	merged, err := e.store.UpdateUser(ctx, user.Up{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	want := user.User{ID: "u1", Name: "Lan Phạm", Email: "lan@engpro.vn", Role: user.RoleStudent}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merge must keep untouched fields (-want +got):\n%s", diff)
	}
}

func TestHydrateRefetchesExactlyOnce(t *testing.T) {
	e := newEnv(t)
	e.handleCurrentUser(user.User{ID: "u1", Name: "Lan"})

	seed, _ := json.Marshal(map[string]any{
		"user":       user.User{ID: "u1", Name: "Lan"},
		"isLoggedIn": true,
	})
	if err := e.storage.Set(storage.AuthKey, seed); err != nil {
		t.Fatalf("seeding storage: %v", err)
	}

	ctx := context.Background()
	if err := e.store.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if err := e.store.Hydrate(ctx); err != nil {
		t.Fatalf("second hydrate: %v", err)
	}

	if got := e.srv.Calls(http.MethodGet, "/users/current"); got != 1 {
		t.Fatalf("rehydration refetches: got %d, want exactly 1", got)
	}

	select {
	case <-e.store.Hydrated():
	default:
		t.Fatal("hydration barrier must be closed after Hydrate")
	}
}

func TestHydrateLoggedOutMakesNoCalls(t *testing.T) {
	e := newEnv(t)

	if err := e.store.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if got := e.srv.TotalCalls(); got != 0 {
		t.Fatalf("expected zero network calls, got %d", got)
	}
	if e.store.IsLoggedIn() {
		t.Fatal("empty storage must hydrate to logged out")
	}
}
