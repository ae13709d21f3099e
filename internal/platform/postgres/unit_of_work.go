package postgres

import (
	"database/sql"
	"log/slog"

	"github.com/kittens-answers/answers-core/internal/platform/sqltx"
	"github.com/kittens-answers/answers-core/internal/store"
)

// UnitOfWork implements store.UnitOfWork on top of a PostgreSQL transaction.
// Commit commits the current transaction and starts the next one; End rolls
// back whatever was written since.
type UnitOfWork struct {
	*sqltx.Transactor
	users     *UserRepository
	questions *QuestionRepository
	answers   *AnswerRepository
}

// Ensure UnitOfWork implements store.UnitOfWork interface
var _ store.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork binds the given repositories to a new UnitOfWork over db.
// If logger is nil, a default logger will be used.
func NewUnitOfWork(
	db *sql.DB,
	logger *slog.Logger,
	users *UserRepository,
	questions *QuestionRepository,
	answers *AnswerRepository,
) *UnitOfWork {
	if users == nil || questions == nil || answers == nil {
		panic("repositories cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	tr := sqltx.NewTransactor(db, logger.With(slog.String("component", "postgres_unit_of_work")))
	users.scope = tr.Scope()
	questions.scope = tr.Scope()
	answers.scope = tr.Scope()

	return &UnitOfWork{
		Transactor: tr,
		users:      users,
		questions:  questions,
		answers:    answers,
	}
}

// New creates a UnitOfWork over db with fresh repositories.
func New(db *sql.DB, logger *slog.Logger) *UnitOfWork {
	return NewUnitOfWork(
		db,
		logger,
		NewUserRepository(logger),
		NewQuestionRepository(logger),
		NewAnswerRepository(logger),
	)
}

// Users implements store.UnitOfWork.Users
func (u *UnitOfWork) Users() store.UserRepository {
	return u.users
}

// Questions implements store.UnitOfWork.Questions
func (u *UnitOfWork) Questions() store.QuestionRepository {
	return u.questions
}

// Answers implements store.UnitOfWork.Answers
func (u *UnitOfWork) Answers() store.AnswerRepository {
	return u.answers
}
