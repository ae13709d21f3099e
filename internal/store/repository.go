package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// GetByUID retrieves a user by uid.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUID(ctx context.Context, uid uuid.UUID) (*domain.User, error)

	// GetByForeignID retrieves a user by its natural key.
	// Returns ErrUserNotFound if the user does not exist.
	GetByForeignID(ctx context.Context, foreignID string) (*domain.User, error)

	// Create stores a new user with a generated uid and returns it.
	// Returns ErrUserExists if the foreign id is taken and domain validation
	// errors for an invalid foreign id.
	Create(ctx context.Context, foreignID string) (*domain.User, error)
}

// QuestionRepository defines the persistence operations for questions.
type QuestionRepository interface {
	// GetByUID retrieves a question by uid.
	// Returns ErrQuestionNotFound if the question does not exist.
	GetByUID(ctx context.Context, uid uuid.UUID) (*domain.Question, error)

	// Get retrieves a question by its natural key. Options compare as sets.
	// Returns ErrQuestionNotFound if the question does not exist.
	Get(ctx context.Context, key domain.QuestionKey) (*domain.Question, error)

	// Create validates and stores a new question and returns it.
	// Returns domain validation errors before any storage access,
	// ErrQuestionExists if the natural key is taken and ErrInvalidEntity if
	// the creator does not exist.
	Create(ctx context.Context, key domain.QuestionKey, creator uuid.UUID) (*domain.Question, error)
}

// AnswerRepository defines the persistence operations for answers.
type AnswerRepository interface {
	// GetByUID retrieves an answer by uid.
	// Returns ErrAnswerNotFound if the answer does not exist.
	GetByUID(ctx context.Context, uid uuid.UUID) (*domain.Answer, error)

	// Get retrieves an answer by its natural key. Answer sequences compare in
	// order.
	// Returns ErrAnswerNotFound if the answer does not exist.
	Get(ctx context.Context, key domain.AnswerKey) (*domain.Answer, error)

	// Create stores a new answer and returns it.
	// Returns ErrAnswerExists if the natural key is taken and ErrInvalidEntity
	// if the creator or the question does not exist.
	Create(ctx context.Context, key domain.AnswerKey, creator uuid.UUID) (*domain.Answer, error)
}
