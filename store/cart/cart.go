// Package cart mirrors the server-side cart, safe for optimistic local
// mutation. The server stays the source of truth: every optimistic step is
// followed by a reconciling fetch. Single writer of engpro-cart-storage.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/apierr"
	corecart "github.com/engpro/engpro-go/core/cart"
	"github.com/engpro/engpro-go/storage"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Session is the slice of the auth store the cart depends on: the login
// flag and the hydration barrier it waits on before its first fetch.
type Session interface {
	IsLoggedIn() bool
	Hydrated() <-chan struct{}
}

var emptySummary = corecart.Summary{Currency: "USD"}

type Store struct {
	api     *api.Client
	storage storage.Store
	log     logrus.FieldLogger
	session Session

	mu         sync.Mutex
	items      []corecart.Item
	summary    corecart.Summary
	isLoading  bool
	isAdding   bool
	isRemoving bool
	isClearing bool

	hydrateOnce   sync.Once
	bootstrapOnce sync.Once
}

type persisted struct {
	Items   []corecart.Item  `json:"items"`
	Summary corecart.Summary `json:"summary"`
}

func New(c *api.Client, st storage.Store, session Session, log logrus.FieldLogger) *Store {
	return &Store{
		api:     c,
		storage: st,
		session: session,
		log:     log.WithField("store", "cart"),
		summary: emptySummary,
	}
}

func (s *Store) Items() []corecart.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]corecart.Item, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store) Summary() corecart.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Contains(courseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.Course.ID == courseID {
			return true
		}
	}
	return false
}

// FormattedTotal renders the cart total as a locale-aware currency string.
// The amount stays in integer cents all the way to the printer.
func (s *Store) FormattedTotal() string {
	s.mu.Lock()
	sum := s.summary
	s.mu.Unlock()

	unit, err := currency.ParseISO(sum.Currency)
	if err != nil {
		unit = currency.USD
	}
	p := message.NewPrinter(language.Vietnamese)
	return p.Sprintf("%v%d,%02d", currency.Symbol(unit), sum.TotalPriceCents/100, sum.TotalPriceCents%100)
}

func (s *Store) persistLocked() {
	b, err := json.Marshal(persisted{Items: s.items, Summary: s.summary})
	if err != nil {
		s.log.WithField("message", err).Error("marshaling cart state")
		return
	}
	if err := s.storage.Set(storage.CartKey, b); err != nil {
		s.log.WithField("message", err).Error("persisting cart state")
	}
}

func (s *Store) resetLocked() {
	s.items = nil
	s.summary = emptySummary
	s.isLoading = false
	s.persistLocked()
}

// Reset clears in-memory state and removes the persisted entry. The auth
// store calls it on logout.
func (s *Store) Reset() error {
	s.mu.Lock()
	s.items = nil
	s.summary = emptySummary
	s.isLoading = false
	s.mu.Unlock()
	return s.storage.Delete(storage.CartKey)
}

// Fetch replaces items and summary wholesale from the server. Logged out it
// resets synchronously with no network call; on any error it resets rather
// than keep partial or stale state. isLoading is never left stuck true.
func (s *Store) Fetch(ctx context.Context, force bool) error {
	if !s.session.IsLoggedIn() {
		s.mu.Lock()
		s.resetLocked()
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	if s.isLoading && !force {
		s.mu.Unlock()
		return nil
	}
	s.isLoading = true
	s.mu.Unlock()

	ct, err := corecart.Fetch(ctx, s.api)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false

	if err != nil {
		s.resetLocked()
		return err
	}

	s.items = ct.Items
	s.summary = ct.Summary
	s.persistLocked()
	return nil
}

// Add puts a course in the cart. There is no optimistic add: the item's
// authoritative shape comes only from the server, so success triggers a
// full forced fetch.
func (s *Store) Add(ctx context.Context, courseID string) error {
	if !s.session.IsLoggedIn() {
		return apierr.NotAuthenticated(errors.New("login required to add to cart"))
	}

	s.mu.Lock()
	if s.isAdding {
		s.mu.Unlock()
		return nil
	}
	s.isAdding = true
	s.mu.Unlock()
	defer s.clearFlag(&s.isAdding)

	if err := corecart.AddItem(ctx, s.api, courseID); err != nil {
		return err
	}
	return s.Fetch(ctx, true)
}

// Remove deletes a line item. On server success the item is filtered out
// and the summary recomputed locally to cut visible latency, then a forced
// fetch reconciles with server truth.
func (s *Store) Remove(ctx context.Context, courseID string) error {
	if !s.session.IsLoggedIn() {
		return apierr.NotAuthenticated(errors.New("login required to remove from cart"))
	}

	s.mu.Lock()
	if s.isRemoving {
		s.mu.Unlock()
		return nil
	}
	s.isRemoving = true
	s.mu.Unlock()
	defer s.clearFlag(&s.isRemoving)

	if err := corecart.RemoveItem(ctx, s.api, courseID); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.items[:0:0]
	for _, it := range s.items {
		if it.Course.ID != courseID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.summary = corecart.Summarize(kept)
	s.persistLocked()
	s.mu.Unlock()

	return s.Fetch(ctx, true)
}

// Clear empties the cart. The post-state is known, so local state is reset
// directly without a re-fetch.
func (s *Store) Clear(ctx context.Context) error {
	if !s.session.IsLoggedIn() {
		return apierr.NotAuthenticated(errors.New("login required to clear cart"))
	}

	s.mu.Lock()
	if s.isClearing {
		s.mu.Unlock()
		return nil
	}
	s.isClearing = true
	s.mu.Unlock()
	defer s.clearFlag(&s.isClearing)

	if err := corecart.Clear(ctx, s.api); err != nil {
		return err
	}

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	return nil
}

func (s *Store) clearFlag(flag *bool) {
	s.mu.Lock()
	*flag = false
	s.mu.Unlock()
}

// Hydrate loads the persisted entry, waits for the auth store's hydration
// barrier, then either forces exactly one fetch (logged in) or hard-resets
// (logged out). The barrier replaces the fixed-delay race of older clients.
func (s *Store) Hydrate(ctx context.Context) error {
	s.hydrateOnce.Do(func() {
		b, err := s.storage.Get(storage.CartKey)
		if err != nil {
			if !errors.Is(err, storage.ErrKeyNotFound) {
				s.log.WithField("message", err).Error("reading persisted cart state")
			}
			return
		}

		var p persisted
		if err := json.Unmarshal(b, &p); err != nil {
			s.log.WithField("message", err).Error("decoding persisted cart state")
			return
		}

		s.mu.Lock()
		s.items = p.Items
		s.summary = p.Summary
		s.mu.Unlock()
	})

	select {
	case <-s.session.Hydrated():
	case <-ctx.Done():
		return ctx.Err()
	}

	var err error
	s.bootstrapOnce.Do(func() {
		if s.session.IsLoggedIn() {
			err = s.Fetch(ctx, true)
			return
		}
		s.mu.Lock()
		s.resetLocked()
		s.mu.Unlock()
	})
	return err
}
