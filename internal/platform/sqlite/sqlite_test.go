package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/config"
	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/platform/migrate"
	"github.com/kittens-answers/answers-core/internal/platform/sqlite"
	"github.com/kittens-answers/answers-core/internal/store"
	"github.com/kittens-answers/answers-core/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB opens a migrated database in a temporary directory.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	l, _ := logger.GetTestLogger(t)

	db, err := sqlite.Open(ctx, config.DatabaseConfig{
		Driver: config.DriverSQLite,
		URL:    filepath.Join(t.TempDir(), "answers.db"),
	}, l)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlite.Migrate(ctx, db, l))
	return db
}

func TestSQLiteStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.UnitOfWork {
		l, _ := logger.GetTestLogger(t)
		return sqlite.New(openTestDB(t), l)
	})
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"answers.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate",
		sqlite.DSN("answers.db"))
	assert.Equal(t,
		"file:answers.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate",
		sqlite.DSN("file:answers.db?mode=rwc"))
}

func TestMapErrorFromConstraints(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	uid := uuid.NewString()
	_, err := db.ExecContext(ctx, `INSERT INTO users (uid, foreign_id) VALUES (?, ?)`, uid, "telegram:1")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO users (uid, foreign_id) VALUES (?, ?)`, uuid.NewString(), "telegram:1")
	require.Error(t, err)
	assert.ErrorIs(t, sqlite.MapError(err), store.ErrDuplicate)

	_, err = db.ExecContext(ctx, `INSERT INTO users (uid, foreign_id) VALUES (?, ?)`, uuid.NewString(), "")
	require.Error(t, err)
	assert.ErrorIs(t, sqlite.MapError(err), store.ErrInvalidEntity, "check constraint")

	_, err = db.ExecContext(ctx,
		`INSERT INTO questions (uid, root_question_uid, creator_uid) VALUES (?, ?, ?)`,
		uuid.NewString(), uuid.NewString(), uid)
	require.Error(t, err)
	assert.ErrorIs(t, sqlite.MapError(err), store.ErrInvalidEntity, "foreign keys are enforced")

	var foreignID string
	err = db.QueryRowContext(ctx, `SELECT foreign_id FROM users WHERE uid = ?`, uuid.NewString()).Scan(&foreignID)
	assert.ErrorIs(t, sqlite.MapError(err), store.ErrNotFound)

	assert.NoError(t, sqlite.MapError(nil))
}

func TestStoredColumnsAreCanonical(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	uow := sqlite.New(db, nil)

	require.NoError(t, store.RunInTransaction(ctx, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		creator, err := uow.Users().Create(ctx, "creator")
		require.NoError(t, err)

		_, err = uow.Questions().Create(ctx, domain.QuestionKey{
			Type:         domain.QuestionTypeMatch,
			Text:         "match",
			Options:      []string{"2", "1"},
			ExtraOptions: []string{"b", "a"},
		}, creator.UID)
		return err
	}))

	var options, extraOptions string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT options, extra_options FROM questions`).
		Scan(&options, &extraOptions))
	assert.Equal(t, `["1","2"]`, options)
	assert.Equal(t, `["a","b"]`, extraOptions)

	var roots int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM root_questions`).Scan(&roots))
	assert.Equal(t, 1, roots)
}

func TestMigrationsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	l, buf := logger.GetTestLogger(t)

	require.NoError(t, migrate.Run(ctx, db, sqlite.Migrations, migrate.Status, l))
	require.NoError(t, migrate.Run(ctx, db, sqlite.Migrations, migrate.Down, l))
	require.NoError(t, migrate.Run(ctx, db, sqlite.Migrations, migrate.Reset, l))

	var tables int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'questions', 'answers')`,
	).Scan(&tables))
	assert.Zero(t, tables)

	require.NoError(t, sqlite.Migrate(ctx, db, l))
	logger.AssertLogContains(t, buf, "migration operation completed")
}
