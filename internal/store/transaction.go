package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kittens-answers/answers-core/internal/platform/logger"
)

// UnitOfWork binds one repository per entity to a single transaction.
//
// A scope runs from Begin to End. Begin snapshots the state needed to undo
// every write made during the scope. Commit makes the writes made so far
// durable and moves that snapshot forward; it does not end the scope. End
// always releases the scope and discards anything written after the last
// Commit. Repositories used outside a scope return ErrNoActiveScope.
//
// A UnitOfWork is not safe for overlapping scopes. Concurrent transactions
// need one UnitOfWork each.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	End(ctx context.Context) error

	Users() UserRepository
	Questions() QuestionRepository
	Answers() AnswerRepository
}

// ScopeFn is a function that executes within a unit of work scope.
type ScopeFn func(ctx context.Context, uow UnitOfWork) error

// WithinScope begins a scope on uow, runs fn and ends the scope on every exit
// path, panics included. Writes survive only if fn calls Commit.
func WithinScope(ctx context.Context, uow UnitOfWork, fn ScopeFn) error {
	log := logger.FromContext(ctx)

	if err := uow.Begin(ctx); err != nil {
		log.Error("failed to begin unit of work",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin unit of work: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if endErr := uow.End(ctx); endErr != nil {
				log.Error("failed to end unit of work after panic",
					slog.String("error", endErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("ended unit of work after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	err := fn(ctx, uow)

	if endErr := uow.End(ctx); endErr != nil {
		log.Error("failed to end unit of work",
			slog.String("end_error", endErr.Error()))
		if err != nil {
			return fmt.Errorf("error ending unit of work: %v (original error: %w)", endErr, err)
		}
		return fmt.Errorf("failed to end unit of work: %w", endErr)
	}

	if err != nil {
		log.Debug("unit of work scope exited with error",
			slog.String("error", err.Error()))
	}

	return err
}

// RunInTransaction executes fn within a scope and commits when fn returns nil.
// If fn returns an error or panics, nothing written by fn is kept.
func RunInTransaction(ctx context.Context, uow UnitOfWork, fn ScopeFn) error {
	return WithinScope(ctx, uow, func(ctx context.Context, uow UnitOfWork) error {
		if err := fn(ctx, uow); err != nil {
			return err
		}

		if err := uow.Commit(ctx); err != nil {
			logger.FromContext(ctx).Error("failed to commit unit of work",
				slog.String("error", err.Error()))
			return fmt.Errorf("failed to commit unit of work: %w", err)
		}

		logger.FromContext(ctx).Debug("unit of work committed successfully")
		return nil
	})
}
