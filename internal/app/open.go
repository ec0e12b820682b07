package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/evcraddock/rentapp/internal/catalog"
	"github.com/evcraddock/rentapp/internal/config"
	"github.com/evcraddock/rentapp/internal/db"
	"github.com/evcraddock/rentapp/internal/kv"
)

// Open builds a tab from cfg. The returned func releases the store.
func Open(ctx context.Context, cfg config.Config, opts Options) (*Tab, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	seed, err := catalog.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, nil, err
	}
	opts.Seed = append(opts.Seed, seed...)
	if opts.CacheTTL == 0 {
		opts.CacheTTL = cfg.CacheTTL
	}
	if opts.Retention == 0 {
		opts.Retention = cfg.Retention
	}

	store, release, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	t := New(store, opts)
	slog.Debug("tab opened", "driver", cfg.Driver)
	return t, func() {
		t.Close()
		release()
	}, nil
}

func openStore(ctx context.Context, cfg config.Config) (kv.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverMemory:
		tab := kv.NewMemory().Tab()
		return tab, tab.Close, nil

	case config.DriverSQLite:
		path := cfg.DBPath
		if path == "" {
			p, err := db.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		conn, err := db.Open(path)
		if err != nil {
			return nil, nil, err
		}
		s, err := kv.NewSQLite(conn)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return s, func() {
			if err := conn.Close(); err != nil {
				slog.Warn("closing database", "error", err)
			}
		}, nil

	case config.DriverPostgres:
		s, err := kv.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				slog.Warn("closing postgres", "error", err)
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
