package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/i18n"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/config"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/db/memory"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/db/mongo"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/db/postgres"
	"github.com/Mustafaelfangary/Altavidatours-sub004/locales"
)

// openStore connects the configured record store. With migrate set the
// schema (postgres) or indexes (mongo) are brought up to date first.
func openStore(ctx context.Context, migrate bool) (*ports.Store, error) {
	storeLog := log.With().Str("component", "store").Str("driver", cfg.Store.Driver).Logger()

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Store.DatabaseURL}, storeLog)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				return nil, err
			}
			storeLog.Info().Msg("schema migrated")
		}
		return postgres.NewStore(db), nil

	case config.DriverMongo:
		_, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Store.MongoURI, Database: cfg.Store.MongoDB}, storeLog)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := mongo.EnsureIndexes(ctx, db); err != nil {
				return nil, err
			}
			storeLog.Info().Msg("indexes ensured")
		}
		return mongo.NewStore(db), nil

	case config.DriverMemory:
		storeLog.Warn().Msg("using the in-memory store, data is lost on exit")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func closeStore(store *ports.Store) {
	if store.Close == nil {
		return
	}
	if err := store.Close(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Msg("closing store")
	}
}

// loadLocales reads dictionaries from LOCALES_DIR when set, otherwise from
// the embedded locales.
func loadLocales() (*i18n.Catalog, error) {
	i18nLog := log.With().Str("component", "i18n").Logger()
	var fsys fs.FS = locales.FS
	if cfg.I18n.Dir != "" {
		i18nLog.Info().Str("dir", cfg.I18n.Dir).Msg("loading dictionaries from disk")
		fsys = os.DirFS(cfg.I18n.Dir)
	}
	return i18n.Load(fsys, i18n.Config{Locales: cfg.I18n.Locales, Default: cfg.I18n.Default}, i18nLog)
}
