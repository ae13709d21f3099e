package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is the root of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a create would duplicate the natural key of
	// an existing entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity references another entity
	// that does not exist, or violates a storage constraint other than
	// uniqueness.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrNoActiveScope is returned when a repository obtained from a unit of
	// work is used outside of an active scope.
	ErrNoActiveScope = errors.New("unit of work has no active scope")

	// ErrScopeActive is returned when a scope is begun on a unit of work that
	// already has one.
	ErrScopeActive = errors.New("unit of work scope already active")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrQuestionNotFound indicates that the requested question does not exist in the store.
	ErrQuestionNotFound = fmt.Errorf("%w: question", ErrNotFound)

	// ErrAnswerNotFound indicates that the requested answer does not exist in the store.
	ErrAnswerNotFound = fmt.Errorf("%w: answer", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrUserExists indicates that a user with the given foreign id already exists.
	ErrUserExists = fmt.Errorf("%w: user", ErrDuplicate)

	// ErrQuestionExists indicates that a question with the same type, text and
	// options already exists.
	ErrQuestionExists = fmt.Errorf("%w: question", ErrDuplicate)

	// ErrAnswerExists indicates that the same answer content was already
	// recorded for the question with the same correctness flag.
	ErrAnswerExists = fmt.Errorf("%w: answer", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
