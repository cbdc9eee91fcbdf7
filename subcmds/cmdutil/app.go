// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"context"
	"fmt"

	"github.com/bvk/gridctl/bots"
	"github.com/bvk/gridctl/market"
	"github.com/bvk/gridctl/registry"
	"github.com/bvk/gridctl/session"
	"github.com/bvkgo/kv"
)

// App bundles the client-side components most subcommands need: the
// local database, the session store with its backend client, the bot
// registry and the bots manager.
type App struct {
	DB kv.Database

	Secrets *Secrets

	Store *session.Store

	Registry *registry.Registry

	Market *market.Client

	Bots *bots.Manager

	closer func()
}

// OpenApp opens the database, restores the session and wires up the
// managers. Callers must Close the returned app.
func (f *DBFlags) OpenApp(ctx context.Context) (*App, error) {
	secrets, err := f.GetSecrets()
	if err != nil {
		return nil, err
	}

	opts, err := f.ClientFlags.BackendOptions(secrets)
	if err != nil {
		return nil, err
	}

	db, closer, err := f.GetDatabase(ctx)
	if err != nil {
		return nil, err
	}

	store := session.New(db, opts)
	if _, err := store.Init(ctx); err != nil {
		closer()
		return nil, fmt.Errorf("could not restore the session: %w", err)
	}

	reg, err := registry.Open(ctx, db)
	if err != nil {
		closer()
		return nil, err
	}

	mkt := market.New(nil)
	mgr := bots.NewManager(store.Client(), reg, mkt, secrets.Notifier(), nil)

	return &App{
		DB:       db,
		Secrets:  secrets,
		Store:    store,
		Registry: reg,
		Market:   mkt,
		Bots:     mgr,
		closer:   closer,
	}, nil
}

func (a *App) Close() {
	if a.closer != nil {
		a.closer()
	}
}

// RequireAuthenticated rejects commands that need a logged-in session.
func (a *App) RequireAuthenticated() error {
	switch a.Store.State() {
	case session.Authenticated:
		return nil
	case session.PendingVerification:
		return fmt.Errorf("your email address is not verified yet; run `gridctl auth verify`")
	default:
		return fmt.Errorf("you are not logged in; run `gridctl auth login`")
	}
}
