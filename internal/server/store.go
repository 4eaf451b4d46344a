package server

import (
	"context"

	"github.com/samber/oops"

	"github.com/iudanet/fasalsaathi/internal/config"
	"github.com/iudanet/fasalsaathi/internal/server/storage/boltdb"
	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
	"github.com/iudanet/fasalsaathi/internal/server/storage/repository"
	"github.com/iudanet/fasalsaathi/internal/server/storage/sqlstore"
)

// connectRetries is how long serve waits for a SQL backend that is still
// starting up.
const connectRetries = 5

// OpenStore opens the document store selected by cfg. SQL stores are
// migrated unless migrate is false.
func OpenStore(ctx context.Context, cfg config.StoreConfig, migrate bool) (docstore.Store, error) {
	switch cfg.Driver {
	case config.DriverBolt:
		return boltdb.New(ctx, cfg.Path, repository.Indexes)
	case config.DriverSQLite, config.DriverPostgres:
		sqlCfg := sqlstore.Config{Dialect: cfg.Driver, DSN: cfg.DSN, ConnectRetries: connectRetries}
		if cfg.Driver == config.DriverSQLite {
			sqlCfg.DSN = cfg.Path
		}
		if migrate {
			return sqlstore.New(ctx, sqlCfg, repository.Indexes)
		}
		return sqlstore.Open(ctx, sqlCfg, repository.Indexes)
	default:
		return nil, oops.Code("STORE_INVALID_DRIVER").With("driver", cfg.Driver).Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Migrate applies pending SQL migrations. The bolt store has no schema and
// needs none.
func Migrate(ctx context.Context, cfg config.StoreConfig) error {
	if cfg.Driver == config.DriverBolt {
		return nil
	}
	store, err := OpenStore(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer store.Close()

	sqlStore, ok := store.(*sqlstore.Storage)
	if !ok {
		return oops.Code("STORE_MIGRATION_FAILED").Errorf("driver %q does not support migrations", cfg.Driver)
	}
	return sqlStore.Migrate(ctx)
}
