// Package page is the headless controller behind every paginated CRUD
// screen: one loader, filter/pagination state, optimistic mutation with
// rollback, and stale-response discarding via a load generation counter.
package page

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/apierr"
)

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Errored
	Mutating
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	case Mutating:
		return "mutating"
	}
	return "idle"
}

// ErrCancelled reports a destructive action declined at the confirmation
// step. No state changed and no network call was made.
var ErrCancelled = errors.New("action cancelled")

// Notifier is the toast analog, the only user-visible side channel of a
// page.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type ErrorMode int

const (
	// ErrorModeKeepStale keeps the last good items visible on a failed
	// load and raises one error notification.
	ErrorModeKeepStale ErrorMode = iota
	// ErrorModeDedicated switches the page to an Errored state instead
	// (the orders page behavior); recovery is an explicit Reload.
	ErrorModeDedicated
)

type Config struct {
	Notifier Notifier
	// Confirm gates destructive actions; nil means always decline.
	Confirm   func(prompt string) bool
	ErrorMode ErrorMode
	Debounce  time.Duration
}

type Loader[T, Q any] func(ctx context.Context, q Q) (api.Page[T], error)

type Controller[T, Q any] struct {
	cfg  Config
	load Loader[T, Q]

	gen atomic.Int64

	mu         sync.Mutex
	items      []T
	state      State
	err        error
	page       int
	totalPages int
	total      int
	lastQuery  Q
	debounce   *time.Timer
}

func NewController[T, Q any](load Loader[T, Q], cfg Config) *Controller[T, Q] {
	if cfg.Debounce == 0 {
		cfg.Debounce = 300 * time.Millisecond
	}
	return &Controller[T, Q]{cfg: cfg, load: load}
}

func (c *Controller[T, Q]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Controller[T, Q]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[T, Q]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller[T, Q]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller[T, Q]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages
}

func (c *Controller[T, Q]) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Load runs the loader for q. A completion belonging to a superseded load
// is discarded wholesale, so a slow old response can never overwrite the
// newer list.
func (c *Controller[T, Q]) Load(ctx context.Context, q Q) error {
	gen := c.gen.Add(1)

	c.mu.Lock()
	c.state = Loading
	c.lastQuery = q
	c.mu.Unlock()

	res, err := c.load(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen.Load() != gen {
		return nil
	}

	if err != nil {
		if c.cfg.ErrorMode == ErrorModeDedicated {
			c.state = Errored
			c.err = err
			return err
		}

		// stale-but-visible: prior items stay on screen
		c.state = Loaded
		c.err = nil
		if c.cfg.Notifier != nil {
			c.cfg.Notifier.Error(apierr.MessageOf(err))
		}
		return err
	}

	c.items = res.Items
	c.page = res.Page
	c.totalPages = res.TotalPages
	c.total = res.Total
	c.state = Loaded
	c.err = nil
	return nil
}

// Reload repeats the last query, e.g. the retry button of a dedicated
// error state or the refetch after a confirmed mutation.
func (c *Controller[T, Q]) Reload(ctx context.Context) error {
	c.mu.Lock()
	q := c.lastQuery
	c.mu.Unlock()
	return c.Load(ctx, q)
}

// Debounced schedules a Load after the configured delay, resetting any
// pending one. Used for search-as-you-type filters.
func (c *Controller[T, Q]) Debounced(ctx context.Context, q Q) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.cfg.Debounce, func() {
		c.Load(ctx, q)
	})
}

// Mutate is the optimistic three-step: snapshot, patch, remote call; on
// failure the snapshot is restored and one error notification fires.
func (c *Controller[T, Q]) Mutate(ctx context.Context, patch func(items []T) []T, call func(ctx context.Context) error) error {
	c.mu.Lock()
	snapshot := make([]T, len(c.items))
	copy(snapshot, c.items)
	c.items = patch(c.items)
	c.state = Mutating
	c.mu.Unlock()

	err := call(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Loaded

	if err != nil {
		c.items = snapshot
		if c.cfg.Notifier != nil {
			c.cfg.Notifier.Error(apierr.MessageOf(err))
		}
		return err
	}
	return nil
}

// MutateDestructive is Mutate behind the confirmation dialog. Declining
// cancels with no state change and no network call.
func (c *Controller[T, Q]) MutateDestructive(ctx context.Context, prompt string, patch func(items []T) []T, call func(ctx context.Context) error) error {
	if c.cfg.Confirm == nil || !c.cfg.Confirm(prompt) {
		return ErrCancelled
	}
	return c.Mutate(ctx, patch, call)
}
