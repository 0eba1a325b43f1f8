// Package app wires the client, storage and the two stores together and
// drives the load sequence: both stores rehydrate, auth refetches the user
// when it was logged in, and the cart waits on auth before fetching or
// resetting.
package app

import (
	"context"
	"fmt"

	"github.com/engpro/engpro-go/api"
	authstore "github.com/engpro/engpro-go/store/auth"
	cartstore "github.com/engpro/engpro-go/store/cart"
	"github.com/engpro/engpro-go/storage"
	"github.com/sirupsen/logrus"
)

type Config struct {
	API api.Config
	// StorageDir locates the badger store; ignored when Storage is set.
	StorageDir string
	// Storage overrides the default badger store (tests use memory).
	Storage storage.Store
	Log     logrus.FieldLogger
}

type App struct {
	API  *api.Client
	Auth *authstore.Store
	Cart *cartstore.Store

	storage storage.Store
}

func New(cfg Config) (*App, error) {
	log := cfg.Log
	if log == nil {
		log = logrus.New()
	}

	st := cfg.Storage
	if st == nil {
		var err error
		if st, err = storage.OpenBadger(cfg.StorageDir); err != nil {
			return nil, fmt.Errorf("opening local storage: %w", err)
		}
	}

	apiCfg := cfg.API
	if apiCfg.Log == nil {
		apiCfg.Log = log
	}
	client, err := api.New(apiCfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("building api client: %w", err)
	}

	auth := authstore.New(client, st, log)
	cart := cartstore.New(client, st, auth, log)
	auth.AttachCart(cart)

	return &App{API: client, Auth: auth, Cart: cart, storage: st}, nil
}

// Hydrate runs both store hydrations concurrently. The cart blocks on the
// auth barrier internally, so ordering needs no care here.
func (a *App) Hydrate(ctx context.Context) error {
	errc := make(chan error, 2)

	go func() { errc <- a.Auth.Hydrate(ctx) }()
	go func() { errc <- a.Cart.Hydrate(ctx) }()

	var first error
	for i := 0; i < 2; i++ {
		if err := <-errc; err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *App) Close() error {
	return a.storage.Close()
}
