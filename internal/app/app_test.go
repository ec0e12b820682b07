package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/rentapp/internal/bus"
	"github.com/evcraddock/rentapp/internal/clock"
	"github.com/evcraddock/rentapp/internal/config"
	"github.com/evcraddock/rentapp/internal/kv"
	"github.com/evcraddock/rentapp/internal/property"
	"github.com/evcraddock/rentapp/internal/status"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func recorder(b *bus.Bus) *[]bus.Event {
	var events []bus.Event
	b.Subscribe(func(e bus.Event) { events = append(events, e) })
	return &events
}

func kinds(events []bus.Event) []bus.Kind {
	out := make([]bus.Kind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestCrossTabSignal(t *testing.T) {
	origin := kv.NewMemory()
	clk := clock.NewManual(t0)
	a := New(origin.Tab(), Options{Clock: clk})
	b := New(origin.Tab(), Options{Clock: clk})
	t.Cleanup(a.Close)
	t.Cleanup(b.Close)

	eventsA, eventsB := recorder(a.Bus), recorder(b.Bus)

	_, err := a.Properties.Create(&property.Record{OwnerID: "u1", Title: "Loft"})
	require.NoError(t, err)

	assert.Equal(t, []bus.Kind{bus.PropertyCreated}, kinds(*eventsA))
	require.Equal(t, []bus.Kind{bus.Storage}, kinds(*eventsB))
	assert.True(t, (*eventsB)[0].Remote)
	assert.Equal(t, kv.PropertiesKey, (*eventsB)[0].Key)
}

func TestOtherTabCatalogRefreshes(t *testing.T) {
	origin := kv.NewMemory()
	clk := clock.NewManual(t0)
	a := New(origin.Tab(), Options{Clock: clk})
	b := New(origin.Tab(), Options{Clock: clk})
	t.Cleanup(a.Close)
	t.Cleanup(b.Close)

	require.Empty(t, b.Catalog.GetAll())

	rec, err := a.Properties.Create(&property.Record{OwnerID: "u1", Title: "Loft"})
	require.NoError(t, err)

	got := b.Catalog.GetAll()
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
}

func TestLocalMutationInvalidatesBeforePublishing(t *testing.T) {
	tab := New(kv.NewMemory().Tab(), Options{Clock: clock.NewManual(t0)})
	t.Cleanup(tab.Close)
	require.Empty(t, tab.Catalog.GetAll())

	var seen int
	tab.Bus.SubscribeKinds(func(bus.Event) {
		seen = len(tab.Catalog.GetAll())
	}, bus.PropertyCreated)

	_, err := tab.Properties.Create(&property.Record{OwnerID: "u1", Title: "Loft"})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestCloseDetaches(t *testing.T) {
	origin := kv.NewMemory()
	a := New(origin.Tab(), Options{Clock: clock.NewManual(t0)})
	b := New(origin.Tab(), Options{Clock: clock.NewManual(t0)})
	t.Cleanup(a.Close)

	events := recorder(b.Bus)
	b.Close()

	require.NoError(t, a.Bookmarks.Add("u1", "p1"))
	assert.Empty(t, *events)
}

func TestOpenMemory(t *testing.T) {
	cfg := config.Defaults()
	cfg.Driver = config.DriverMemory

	tab, release, err := Open(context.Background(), cfg, Options{})
	require.NoError(t, err)
	defer release()

	require.NoError(t, tab.Bookmarks.Add("u1", "p1"))
	assert.True(t, tab.Bookmarks.IsBookmarked("u1", "p1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, tab.Watch(ctx, time.Millisecond))
}

func TestOpenSQLiteSharesOrigin(t *testing.T) {
	cfg := config.Defaults()
	cfg.DBPath = filepath.Join(t.TempDir(), "rentapp.db")

	a, releaseA, err := Open(context.Background(), cfg, Options{Clock: clock.NewManual(t0)})
	require.NoError(t, err)
	defer releaseA()
	b, releaseB, err := Open(context.Background(), cfg, Options{Clock: clock.NewManual(t0)})
	require.NoError(t, err)
	defer releaseB()

	events := recorder(b.Bus)

	_, err = a.Status.Set("p1", status.Closed, status.Actor{ID: "s1", Name: "Aigerim"})
	require.NoError(t, err)
	assert.Equal(t, status.Closed, b.Status.Get("p1").State)

	require.NoError(t, b.Store.(*kv.SQLStore).Poll())
	require.NotEmpty(t, *events)
	assert.Equal(t, bus.Storage, (*events)[0].Kind)
	assert.Equal(t, kv.PropertyStatusKey, (*events)[0].Key)
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Driver = "redis"

	_, _, err := Open(context.Background(), cfg, Options{})
	assert.Error(t, err)
}

func TestOpenLoadsSeed(t *testing.T) {
	cfg := config.Defaults()
	cfg.Driver = config.DriverMemory
	cfg.SeedFile = filepath.Join(t.TempDir(), "seed.yaml")
	seed := "properties:\n  - id: seed-1\n    title: Studio\n    created_at: 2026-01-10T09:00:00Z\n"
	require.NoError(t, os.WriteFile(cfg.SeedFile, []byte(seed), 0o600))

	tab, release, err := Open(context.Background(), cfg, Options{})
	require.NoError(t, err)
	defer release()
	got, ok := tab.Catalog.GetByID("seed-1")
	require.True(t, ok)
	assert.Equal(t, "Studio", got.Title)
}
