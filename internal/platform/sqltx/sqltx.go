// Package sqltx implements the transaction lifecycle shared by the relational
// unit of work implementations.
package sqltx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/store"
)

// Scope holds the transaction shared by a Transactor and the repositories
// bound to it.
type Scope struct {
	tx *sql.Tx
}

// Conn returns the active transaction, or store.ErrNoActiveScope when there
// is none. A nil Scope has no transaction.
func (s *Scope) Conn() (store.DBTX, error) {
	if s == nil || s.tx == nil {
		return nil, store.ErrNoActiveScope
	}
	return s.tx, nil
}

// Transactor implements Begin, Commit and End of store.UnitOfWork on top of
// database transactions.
type Transactor struct {
	db     *sql.DB
	logger *slog.Logger
	scope  *Scope
}

// NewTransactor creates a Transactor over db.
// If logger is nil, a default logger will be used.
func NewTransactor(db *sql.DB, logger *slog.Logger) *Transactor {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Transactor{
		db:     db,
		logger: logger,
		scope:  &Scope{},
	}
}

// Scope returns the scope repositories bind to.
func (t *Transactor) Scope() *Scope {
	return t.scope
}

// Begin starts a transaction.
// Returns store.ErrScopeActive if one is already open.
func (t *Transactor) Begin(ctx context.Context) error {
	if t.scope.tx != nil {
		return store.ErrScopeActive
	}

	log := logger.FromContextOrDefault(ctx, t.logger)

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	t.scope.tx = tx
	log.Debug("transaction started")
	return nil
}

// Commit commits the current transaction and starts the next one, so the
// scope stays active.
func (t *Transactor) Commit(ctx context.Context) error {
	if t.scope.tx == nil {
		return store.ErrNoActiveScope
	}

	log := logger.FromContextOrDefault(ctx, t.logger)

	// A failed transaction stays in the scope until End releases it.
	if err := t.scope.tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction after commit", slog.String("error", err.Error()))
		return fmt.Errorf("committed, but failed to begin next transaction: %w", err)
	}

	t.scope.tx = tx
	log.Info("transaction committed")
	return nil
}

// End rolls back the open transaction, discarding writes made after the last
// Commit, and releases the scope.
func (t *Transactor) End(ctx context.Context) error {
	tx := t.scope.tx
	if tx == nil {
		return store.ErrNoActiveScope
	}
	t.scope.tx = nil

	log := logger.FromContextOrDefault(ctx, t.logger)

	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Error("failed to roll back transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}

	log.Debug("transaction released")
	return nil
}
