package testdb

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/kittens-answers/answers-core/internal/config"
	"github.com/kittens-answers/answers-core/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 30 * time.Second

// tables lists every table of the schema, children first.
var tables = []string{"answers", "questions", "root_questions", "users"}

// GetTestDBWithT opens a migrated test database and closes it when the test
// completes. The test is skipped when no database is configured.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	if ShouldSkipDatabaseTest() {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	logger := slog.New(slog.DiscardHandler)

	db, err := postgres.Open(ctx, config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		URL:          GetTestDatabaseURL(),
		MaxOpenConns: 4,
	}, logger)
	require.NoError(t, err, "Failed to open test database")

	t.Cleanup(func() { CleanupDB(t, db) })

	require.NoError(t, postgres.Migrate(ctx, db, logger), "Failed to run migrations")
	return db
}

// ResetTables removes every row from the schema tables.
func ResetTables(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	for _, table := range tables {
		_, err := db.ExecContext(ctx, "DELETE FROM "+table)
		require.NoError(t, err, "Failed to clean table %s", table)
	}
}

// CleanupDB safely closes a database connection.
func CleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()

	if db == nil {
		return
	}

	if err := db.Close(); err != nil {
		t.Logf("Warning: failed to close database connection: %v", err)
	}
}
