package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kittens-answers/answers-core/internal/config"
	"github.com/kittens-answers/answers-core/internal/platform/memory"
	"github.com/kittens-answers/answers-core/internal/platform/migrate"
	"github.com/kittens-answers/answers-core/internal/platform/postgres"
	"github.com/kittens-answers/answers-core/internal/platform/sqlite"
	"github.com/kittens-answers/answers-core/internal/service"
	"github.com/kittens-answers/answers-core/internal/store"
)

// errNoMigrations is returned when migrations are requested for a driver
// without a schema.
var errNoMigrations = errors.New("driver has no migrations")

// backend is the storage selected by the configuration.
type backend struct {
	driver        string
	db            *sql.DB
	migrations    migrate.Source
	newUnitOfWork service.UnitOfWorkFactory
}

// openBackend connects to the storage named by cfg. The caller must Close
// the result.
func openBackend(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return &backend{
			driver:        cfg.Driver,
			newUnitOfWork: service.SharedUnitOfWork(memory.New(logger)),
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &backend{
			driver:     cfg.Driver,
			db:         db,
			migrations: sqlite.Migrations,
			newUnitOfWork: func() store.UnitOfWork {
				return sqlite.New(db, logger)
			},
		}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &backend{
			driver:     cfg.Driver,
			db:         db,
			migrations: postgres.Migrations,
			newUnitOfWork: func() store.UnitOfWork {
				return postgres.New(db, logger)
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// migrate runs command against the backend schema.
func (b *backend) migrate(ctx context.Context, command migrate.Command, logger *slog.Logger) error {
	if b.db == nil {
		return fmt.Errorf("%w: %s", errNoMigrations, b.driver)
	}
	return migrate.Run(ctx, b.db, b.migrations, command, logger)
}

// Close releases the database connection, if any.
func (b *backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
