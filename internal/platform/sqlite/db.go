package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kittens-answers/answers-core/internal/config"
	"github.com/kittens-answers/answers-core/internal/platform/migrate"
	"github.com/kittens-answers/answers-core/internal/redact"
	_ "modernc.org/sqlite" // sqlite driver
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// connectionPragmas are applied to every new connection. Writers take the
// database lock when their transaction begins.
const connectionPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations locates the embedded SQLite schema migrations.
var Migrations = migrate.Source{
	Dialect: "sqlite3",
	FS:      migrationsFS,
	Dir:     "migrations",
}

// DSN appends the connection pragmas to a database file path.
func DSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + connectionPragmas
	}
	return path + "?" + connectionPragmas
}

// Open opens the database file named by cfg.URL, creating it if needed.
// SQLite allows a single writer, so the pool holds one connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open(DriverName, DSN(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		slog.String("driver", DriverName),
		slog.String("path", redact.URL(cfg.URL)))
	return db, nil
}

// Migrate applies every pending schema migration.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	return migrate.Run(ctx, db, Migrations, migrate.Up, logger)
}
