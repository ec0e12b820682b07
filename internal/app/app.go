// Package app wires one tab: a store handle and every service that works
// over it, joined by a single bus.
package app

import (
	"context"
	"time"

	"github.com/evcraddock/rentapp/internal/bookmark"
	"github.com/evcraddock/rentapp/internal/bus"
	"github.com/evcraddock/rentapp/internal/catalog"
	"github.com/evcraddock/rentapp/internal/clock"
	"github.com/evcraddock/rentapp/internal/codec"
	"github.com/evcraddock/rentapp/internal/kv"
	"github.com/evcraddock/rentapp/internal/metrics"
	"github.com/evcraddock/rentapp/internal/note"
	"github.com/evcraddock/rentapp/internal/property"
	"github.com/evcraddock/rentapp/internal/staff"
	"github.com/evcraddock/rentapp/internal/status"
)

// Options tunes a tab. Zero values take defaults.
type Options struct {
	Clock     clock.Clock
	Metrics   *metrics.Metrics
	Seed      []catalog.DisplayProperty
	CacheTTL  time.Duration
	Retention time.Duration
}

// watcher is implemented by stores whose change signal must be polled.
type watcher interface {
	Watch(ctx context.Context, interval time.Duration) error
}

// Tab is one view onto the shared store.
type Tab struct {
	Store      kv.Store
	Bus        *bus.Bus
	Metrics    *metrics.Metrics
	Properties *property.Repository
	Catalog    *catalog.Cache
	Bookmarks  *bookmark.Lifecycle
	Status     *status.Engine
	Notes      *note.Ledger
	Staff      *staff.Views

	closers []func()
}

// New wires the services over store. If store reports changes made by
// other tabs they arrive on Bus as storage events, and a change to the
// property list drops the cached catalog.
func New(store kv.Store, opts Options) *Tab {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	b := bus.New(opts.Metrics)
	c := codec.New(store, opts.Metrics)

	repo := property.NewRepository(c, opts.Clock)
	cache := catalog.NewCache(opts.Seed, repo, opts.Clock, opts.CacheTTL, opts.Metrics)
	repo.Use(property.InvalidateHook(cache), property.PublishHook(b))

	engine := status.NewEngine(status.KVRecords(c), c, opts.Clock, b)
	ledger := note.NewLedger(c, opts.Clock, b)

	t := &Tab{
		Store:      store,
		Bus:        b,
		Metrics:    opts.Metrics,
		Properties: repo,
		Catalog:    cache,
		Bookmarks:  bookmark.NewLifecycle(c, opts.Clock, b, opts.Retention),
		Status:     engine,
		Notes:      ledger,
		Staff:      staff.NewViews(engine, ledger),
	}

	t.closers = append(t.closers, b.SubscribeKinds(func(e bus.Event) {
		if e.Key == kv.PropertiesKey {
			cache.Invalidate()
		}
	}, bus.Storage))

	if n, ok := store.(kv.Notifier); ok {
		t.closers = append(t.closers, bus.Attach(b, n))
	}
	return t
}

// Watch delivers other tabs' changes until ctx is done. Stores that push
// changes themselves only wait for ctx.
func (t *Tab) Watch(ctx context.Context, interval time.Duration) error {
	if w, ok := t.Store.(watcher); ok {
		return w.Watch(ctx, interval)
	}
	<-ctx.Done()
	return nil
}

// Close detaches the tab from the bus and the store's change signal.
func (t *Tab) Close() {
	for i := len(t.closers) - 1; i >= 0; i-- {
		t.closers[i]()
	}
	t.closers = nil
}
