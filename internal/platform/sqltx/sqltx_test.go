package sqltx

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockTransactor(t *testing.T) (*Transactor, sqlmock.Sqlmock, *logger.TestLogBuffer) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	l, buf := logger.GetTestLogger(t)
	return NewTransactor(db, l), mock, buf
}

func TestScopeConn(t *testing.T) {
	var nilScope *Scope
	_, err := nilScope.Conn()
	assert.ErrorIs(t, err, store.ErrNoActiveScope)

	_, err = (&Scope{}).Conn()
	assert.ErrorIs(t, err, store.ErrNoActiveScope)
}

func TestTransactorLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("commit keeps the scope active", func(t *testing.T) {
		tr, mock, buf := newMockTransactor(t)
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectBegin()
		mock.ExpectRollback()

		require.NoError(t, tr.Begin(ctx))
		first, err := tr.Scope().Conn()
		require.NoError(t, err)

		require.NoError(t, tr.Commit(ctx))
		second, err := tr.Scope().Conn()
		require.NoError(t, err)
		assert.NotSame(t, first, second, "commit opens a new transaction")

		require.NoError(t, tr.End(ctx))
		_, err = tr.Scope().Conn()
		assert.ErrorIs(t, err, store.ErrNoActiveScope)

		logger.AssertLogContains(t, buf, "transaction committed")
	})

	t.Run("begin twice", func(t *testing.T) {
		tr, mock, _ := newMockTransactor(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		require.NoError(t, tr.Begin(ctx))
		assert.ErrorIs(t, tr.Begin(ctx), store.ErrScopeActive)
		require.NoError(t, tr.End(ctx))
	})

	t.Run("no scope", func(t *testing.T) {
		tr, _, _ := newMockTransactor(t)

		assert.ErrorIs(t, tr.Commit(ctx), store.ErrNoActiveScope)
		assert.ErrorIs(t, tr.End(ctx), store.ErrNoActiveScope)
	})

	t.Run("begin after commit fails", func(t *testing.T) {
		tr, mock, _ := newMockTransactor(t)
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		require.NoError(t, tr.Begin(ctx))
		err := tr.Commit(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "committed, but failed to begin next transaction")
		assert.NoError(t, tr.End(ctx), "the committed transaction is released without error")
	})

	t.Run("rollback failure", func(t *testing.T) {
		tr, mock, buf := newMockTransactor(t)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("connection lost"))

		require.NoError(t, tr.Begin(ctx))
		err := tr.End(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to roll back transaction")
		logger.AssertLogContains(t, buf, "failed to roll back transaction")

		assert.ErrorIs(t, tr.End(ctx), store.ErrNoActiveScope, "the scope is released even on failure")
	})

	t.Run("nil db panics", func(t *testing.T) {
		assert.Panics(t, func() { NewTransactor(nil, nil) })
	})
}
