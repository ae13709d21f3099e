package memory

import (
	"context"
	"log/slog"
	"maps"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/store"
)

// scope is shared by a UnitOfWork and the repositories bound to it.
type scope struct {
	active bool
}

// check returns store.ErrNoActiveScope unless s is bound and active.
func (s *scope) check() error {
	if s == nil || !s.active {
		return store.ErrNoActiveScope
	}
	return nil
}

// snapshot is a deep copy of every record held by the bound repositories.
type snapshot struct {
	users     map[uuid.UUID]*domain.User
	questions map[uuid.UUID]*domain.Question
	answers   map[uuid.UUID]*domain.Answer
}

// UnitOfWork implements store.UnitOfWork for the memory repositories.
type UnitOfWork struct {
	logger    *slog.Logger
	scope     *scope
	baseline  *snapshot
	users     *UserRepository
	questions *QuestionRepository
	answers   *AnswerRepository
}

// Ensure UnitOfWork implements store.UnitOfWork interface
var _ store.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork binds the given repositories to a new UnitOfWork. A repository
// bound to another UnitOfWork before is moved to this one.
// If logger is nil, a default logger will be used.
func NewUnitOfWork(
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

	s := &scope{}

	users.scope = s
	questions.scope = s
	questions.users = users
	answers.scope = s
	answers.users = users
	answers.questions = questions

	return &UnitOfWork{
		logger:    logger.With(slog.String("component", "memory_unit_of_work")),
		scope:     s,
		users:     users,
		questions: questions,
		answers:   answers,
	}
}

// New creates a UnitOfWork over fresh, empty repositories.
func New(logger *slog.Logger) *UnitOfWork {
	return NewUnitOfWork(
		logger,
		NewUserRepository(logger),
		NewQuestionRepository(logger),
		NewAnswerRepository(logger),
	)
}

// Begin implements store.UnitOfWork.Begin
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.scope.active {
		return store.ErrScopeActive
	}

	u.baseline = u.take()
	u.scope.active = true

	logger.FromContextOrDefault(ctx, u.logger).Debug("scope begun")
	return nil
}

// Commit implements store.UnitOfWork.Commit
// The current records become the state End restores.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if err := u.scope.check(); err != nil {
		return err
	}

	u.baseline = u.take()

	logger.FromContextOrDefault(ctx, u.logger).Info("scope committed",
		slog.Int("users", len(u.baseline.users)),
		slog.Int("questions", len(u.baseline.questions)),
		slog.Int("answers", len(u.baseline.answers)))
	return nil
}

// End implements store.UnitOfWork.End
// Records written after the last Commit are discarded.
func (u *UnitOfWork) End(ctx context.Context) error {
	if err := u.scope.check(); err != nil {
		return err
	}

	u.users.users = u.baseline.users
	u.questions.questions = u.baseline.questions
	u.answers.answers = u.baseline.answers
	u.baseline = nil
	u.scope.active = false

	logger.FromContextOrDefault(ctx, u.logger).Debug("scope ended")
	return nil
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

func (u *UnitOfWork) take() *snapshot {
	return &snapshot{
		users:     cloneRecords(u.users.users),
		questions: cloneRecords(u.questions.questions),
		answers:   cloneRecords(u.answers.answers),
	}
}

func cloneRecords[T interface{ Clone() T }](records map[uuid.UUID]T) map[uuid.UUID]T {
	out := make(map[uuid.UUID]T, len(records))
	for uid, record := range maps.All(records) {
		out[uid] = record.Clone()
	}
	return out
}
