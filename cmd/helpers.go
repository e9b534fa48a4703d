package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aditasap/bizscope/internal/fetch"
	"github.com/aditasap/bizscope/internal/schema"
	"github.com/aditasap/bizscope/internal/scrape"
	"github.com/aditasap/bizscope/internal/store"
)

// initStore opens the configured persistence backend. An empty driver
// means no persistence; the caller gets (nil, nil).
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "":
		return nil, nil
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "bizscope.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// loadSchema loads the field schema, preferring the configured path over
// the embedded default.
func loadSchema() (*schema.Schema, error) {
	if cfg.Schema.FieldsPath != "" {
		return schema.LoadFile(cfg.Schema.FieldsPath)
	}
	return schema.Default(), nil
}

// loadProfiles loads the profile catalog, preferring the configured path
// over the embedded default.
func loadProfiles() (schema.ProfileCatalog, error) {
	if cfg.Schema.ProfilesPath != "" {
		return schema.LoadProfilesFile(cfg.Schema.ProfilesPath)
	}
	return schema.DefaultProfiles(), nil
}

// initScraper builds a Scraper from config: fetcher, schema, profiles,
// and page cache when a store is available.
func initScraper(ctx context.Context) (*scrape.Scraper, store.Store, error) {
	s, err := loadSchema()
	if err != nil {
		return nil, nil, err
	}
	profiles, err := loadProfiles()
	if err != nil {
		return nil, nil, err
	}

	fetcher := fetch.New(
		fetch.WithTimeout(time.Duration(cfg.Fetch.TimeoutSecs)*time.Second),
		fetch.WithRateLimit(cfg.Fetch.RatePerSec),
	)

	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	scraper := scrape.New(fetcher, s, profiles)
	if st != nil {
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, nil, eris.Wrap(err, "migrate store")
		}
		ttl := time.Duration(cfg.Fetch.CacheTTLHours) * time.Hour
		if ttl > 0 {
			scraper.WithCache(st, ttl)
			if n, err := st.DeleteExpiredPages(ctx); err != nil {
				zap.L().Warn("prune expired cached pages", zap.Error(err))
			} else if n > 0 {
				zap.L().Debug("pruned expired cached pages", zap.Int("pages", n))
			}
		}
	}
	return scraper, st, nil
}
