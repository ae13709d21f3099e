package postgres_test

import (
	"context"
	"testing"

	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/platform/migrate"
	"github.com/kittens-answers/answers-core/internal/platform/postgres"
	"github.com/kittens-answers/answers-core/internal/store"
	"github.com/kittens-answers/answers-core/internal/store/storetest"
	"github.com/kittens-answers/answers-core/internal/testdb"
	"github.com/stretchr/testify/require"
)

func TestPostgresStoreContract(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	storetest.Run(t, func(t *testing.T) store.UnitOfWork {
		testdb.ResetTables(t, db)
		l, _ := logger.GetTestLogger(t)
		return postgres.New(db, l)
	})
}

func TestPostgresMigrationsRoundTrip(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()
	l, _ := logger.GetTestLogger(t)

	require.NoError(t, migrate.Run(ctx, db, postgres.Migrations, migrate.Status, l))
	require.NoError(t, migrate.Run(ctx, db, postgres.Migrations, migrate.Reset, l))
	require.NoError(t, postgres.Migrate(ctx, db, l))
	require.NoError(t, migrate.Run(ctx, db, postgres.Migrations, migrate.Version, l))
}
