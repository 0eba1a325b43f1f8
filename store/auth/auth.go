// Package auth holds the session state: who is logged in, persisted across
// restarts. It is the single writer of the engpro-auth-storage entry.
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/engpro/engpro-go/api"
	coreauth "github.com/engpro/engpro-go/core/auth"
	"github.com/engpro/engpro-go/core/user"
	"github.com/engpro/engpro-go/storage"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// CartSyncer is the slice of the cart store the auth store drives: refresh
// after login, reset on logout. An interface keeps the packages acyclic.
type CartSyncer interface {
	Fetch(ctx context.Context, force bool) error
	Reset() error
}

type Store struct {
	api     *api.Client
	storage storage.Store
	log     logrus.FieldLogger

	mu             sync.Mutex
	user           *user.User
	isLoggedIn     bool
	isFetchingUser bool

	hydrated      chan struct{}
	hydrateOnce   sync.Once
	bootstrapOnce sync.Once

	cart CartSyncer
}

type persisted struct {
	User       *user.User `json:"user"`
	IsLoggedIn bool       `json:"isLoggedIn"`
}

func New(c *api.Client, st storage.Store, log logrus.FieldLogger) *Store {
	return &Store{
		api:      c,
		storage:  st,
		log:      log.WithField("store", "auth"),
		hydrated: make(chan struct{}),
	}
}

// AttachCart wires the cart store in after both stores are constructed.
func (s *Store) AttachCart(c CartSyncer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = c
}

func (s *Store) User() (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return user.User{}, false
	}
	return *s.user, true
}

func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoggedIn
}

// Hydrated is closed once the persisted state has been loaded. The cart
// store waits on it before deciding whether to fetch.
func (s *Store) Hydrated() <-chan struct{} { return s.hydrated }

// persistLocked writes current state under the auth key. Persistence
// failures never fail the action that caused them.
func (s *Store) persistLocked() {
	b, err := json.Marshal(persisted{User: s.user, IsLoggedIn: s.isLoggedIn})
	if err != nil {
		s.log.WithField("message", err).Error("marshaling auth state")
		return
	}
	if err := s.storage.Set(storage.AuthKey, b); err != nil {
		s.log.WithField("message", err).Error("persisting auth state")
	}
}

// FetchUser refreshes the current user from the server. Any failure is
// treated as an invalidated session: user and login flag are both cleared,
// with no retry and no distinction between network and auth errors.
func (s *Store) FetchUser(ctx context.Context, force bool) error {
	s.mu.Lock()
	if !s.isLoggedIn {
		s.mu.Unlock()
		return nil
	}
	if s.isFetchingUser && !force {
		s.mu.Unlock()
		return nil
	}
	s.isFetchingUser = true
	s.mu.Unlock()

	u, err := user.Current(ctx, s.api)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isFetchingUser = false

	if err != nil {
		s.user = nil
		s.isLoggedIn = false
		s.persistLocked()
		return err
	}

	s.user = &u
	s.persistLocked()
	return nil
}

// Login authenticates, forces a user refetch and best-effort refreshes the
// cart. A cart failure is logged and swallowed; it never fails the login.
func (s *Store) Login(ctx context.Context, identifier, password string) error {
	creds := coreauth.Credentials{Identifier: identifier, Password: password}
	if err := coreauth.Login(ctx, s.api, creds); err != nil {
		return err
	}

	s.mu.Lock()
	s.isLoggedIn = true
	cart := s.cart
	s.persistLocked()
	s.mu.Unlock()

	if err := s.FetchUser(ctx, true); err != nil {
		return err
	}

	if cart != nil {
		if err := cart.Fetch(ctx, true); err != nil {
			s.log.WithField("message", err).Warn("refreshing cart after login")
		}
	}
	return nil
}

func (s *Store) Logout(ctx context.Context) error {
	return s.logout(ctx, coreauth.Logout)
}

// LogoutAll revokes every session of the user server-side; locally it
// behaves exactly like Logout.
func (s *Store) LogoutAll(ctx context.Context) error {
	return s.logout(ctx, coreauth.LogoutAll)
}

// logout clears local state unconditionally: a failing remote call never
// blocks the local logout.
func (s *Store) logout(ctx context.Context, remote func(context.Context, *api.Client) error) error {
	if err := remote(ctx, s.api); err != nil {
		s.log.WithField("message", err).Warn("remote logout failed, clearing local session anyway")
	}

	s.mu.Lock()
	s.user = nil
	s.isLoggedIn = false
	cart := s.cart
	s.persistLocked()
	s.mu.Unlock()

	if cart != nil {
		if err := cart.Reset(); err != nil {
			s.log.WithField("message", err).Warn("resetting cart on logout")
		}
	}
	return nil
}

// UpdateUser applies a partial update and lays the returned fields over the
// existing user (merge, not replacement).
func (s *Store) UpdateUser(ctx context.Context, up user.Up) (user.User, error) {
	updated, err := user.Update(ctx, s.api, up)
	if err != nil {
		return user.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var cur user.User
	if s.user != nil {
		cur = *s.user
	}
	merged := user.Merge(cur, updated)
	s.user = &merged
	s.persistLocked()
	return merged, nil
}

// Hydrate loads the persisted entry and, when it says logged in, forces
// exactly one user refetch per store instance. Safe to call repeatedly.
func (s *Store) Hydrate(ctx context.Context) error {
	s.hydrateOnce.Do(func() {
		defer close(s.hydrated)

		b, err := s.storage.Get(storage.AuthKey)
		if err != nil {
			if !errors.Is(err, storage.ErrKeyNotFound) {
				s.log.WithField("message", err).Error("reading persisted auth state")
			}
			return
		}

		var p persisted
		if err := json.Unmarshal(b, &p); err != nil {
			s.log.WithField("message", err).Error("decoding persisted auth state")
			return
		}

		s.mu.Lock()
		s.user = p.User
		s.isLoggedIn = p.IsLoggedIn
		s.mu.Unlock()
	})

	var err error
	if s.IsLoggedIn() {
		s.bootstrapOnce.Do(func() {
			err = s.FetchUser(ctx, true)
		})
	}
	return err
}
