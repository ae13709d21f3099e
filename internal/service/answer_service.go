package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/store"
)

// UnitOfWorkFactory returns a UnitOfWork with no active scope. The service
// calls it once per operation and never uses the result concurrently.
type UnitOfWorkFactory func() store.UnitOfWork

// RecordAnswerRequest describes an answer submitted by a user. The question is
// created when it does not exist yet, with the submitting user as creator.
type RecordAnswerRequest struct {
	CreatorForeignID string
	Question         domain.QuestionKey
	Value            domain.AnswerValue
	IsCorrect        bool
}

// RecordedAnswer is the outcome of RecordAnswer. Created is false when the
// same answer was recorded before.
type RecordedAnswer struct {
	Answer   *domain.Answer
	Question *domain.Question
	Created  bool
}

// AnswerDetails is a stored answer together with its question and the typed
// value rebuilt from the stored columns.
type AnswerDetails struct {
	Answer   *domain.Answer
	Question *domain.Question
	Value    domain.AnswerValue
}

// AnswerService provides the create-or-fetch operations over users, questions
// and answers.
type AnswerService interface {
	// EnsureUser returns the user with the given foreign id, creating it when
	// needed.
	EnsureUser(ctx context.Context, foreignID string) (*domain.User, error)

	// EnsureQuestion returns the question with the given key, creating it, and
	// its creator, when needed.
	EnsureQuestion(ctx context.Context, creatorForeignID string, key domain.QuestionKey) (*domain.Question, error)

	// RecordAnswer checks the answer value against the question and stores it
	// unless the same answer is already stored.
	RecordAnswer(ctx context.Context, req RecordAnswerRequest) (*RecordedAnswer, error)

	// GetAnswer retrieves an answer by uid with its question and typed value.
	GetAnswer(ctx context.Context, uid uuid.UUID) (*AnswerDetails, error)
}

// AnswerServiceImpl implements the AnswerService interface
type AnswerServiceImpl struct {
	newUnitOfWork UnitOfWorkFactory
	logger        *slog.Logger
}

// Ensure AnswerServiceImpl implements AnswerService interface
var _ AnswerService = (*AnswerServiceImpl)(nil)

// NewAnswerService creates a new AnswerService.
// It panics if newUnitOfWork is nil.
func NewAnswerService(newUnitOfWork UnitOfWorkFactory, log *slog.Logger) *AnswerServiceImpl {
	if newUnitOfWork == nil {
		panic("unit of work factory cannot be nil")
	}

	return &AnswerServiceImpl{
		newUnitOfWork: newUnitOfWork,
		logger:        logger.Component(log, "answer_service"),
	}
}

// SharedUnitOfWork returns a factory that always hands out uow, serializing
// the scopes opened on it. It lets one in-memory UnitOfWork back a service
// used from several goroutines.
func SharedUnitOfWork(uow store.UnitOfWork) UnitOfWorkFactory {
	shared := &lockedUnitOfWork{UnitOfWork: uow}
	return func() store.UnitOfWork { return shared }
}

// lockedUnitOfWork holds mu from a successful Begin until the matching End.
type lockedUnitOfWork struct {
	store.UnitOfWork
	mu sync.Mutex
}

func (u *lockedUnitOfWork) Begin(ctx context.Context) error {
	u.mu.Lock()
	if err := u.UnitOfWork.Begin(ctx); err != nil {
		u.mu.Unlock()
		return err
	}
	return nil
}

func (u *lockedUnitOfWork) End(ctx context.Context) error {
	defer u.mu.Unlock()
	return u.UnitOfWork.End(ctx)
}

// withLogger makes sure ctx carries a logger, falling back to the service's.
func (s *AnswerServiceImpl) withLogger(ctx context.Context) context.Context {
	return logger.WithLogger(ctx, logger.FromContextOrDefault(ctx, s.logger))
}

// EnsureUser returns the user with the given foreign id, creating it when
// needed.
func (s *AnswerServiceImpl) EnsureUser(ctx context.Context, foreignID string) (*domain.User, error) {
	ctx = s.withLogger(ctx)
	log := logger.FromContext(ctx)

	if err := domain.ValidateForeignID(foreignID); err != nil {
		log.Warn("rejected invalid foreign id",
			slog.String("error", err.Error()))
		return nil, NewServiceError("ensure_user", "invalid foreign id", err)
	}

	var user *domain.User
	err := store.RunInTransaction(ctx, s.newUnitOfWork(),
		func(ctx context.Context, uow store.UnitOfWork) error {
			var err error
			user, _, err = ensureUser(ctx, uow, foreignID)
			return err
		})
	if err != nil {
		log.Error("failed to ensure user",
			slog.String("error", err.Error()),
			slog.String("foreign_id", foreignID))
		return nil, NewServiceError("ensure_user", "failed to ensure user", err)
	}

	return user, nil
}

// EnsureQuestion returns the question with the given key, creating it, and its
// creator, when needed. An existing question keeps its original creator.
func (s *AnswerServiceImpl) EnsureQuestion(
	ctx context.Context,
	creatorForeignID string,
	key domain.QuestionKey,
) (*domain.Question, error) {
	ctx = s.withLogger(ctx)
	log := logger.FromContext(ctx)

	if err := validateSubmission(creatorForeignID, key); err != nil {
		log.Warn("rejected invalid question",
			slog.String("error", err.Error()))
		return nil, NewServiceError("ensure_question", "invalid question", err)
	}

	var question *domain.Question
	err := store.RunInTransaction(ctx, s.newUnitOfWork(),
		func(ctx context.Context, uow store.UnitOfWork) error {
			creator, _, err := ensureUser(ctx, uow, creatorForeignID)
			if err != nil {
				return err
			}
			question, _, err = ensureQuestion(ctx, uow, creator.UID, key)
			return err
		})
	if err != nil {
		log.Error("failed to ensure question",
			slog.String("error", err.Error()),
			slog.String("question_type", key.Type.String()))
		return nil, NewServiceError("ensure_question", "failed to ensure question", err)
	}

	return question, nil
}

// RecordAnswer checks the answer value against the question and stores it
// unless the same answer is already stored. The user and the question are
// created on the way when missing. Nothing is stored if the value does not fit
// the question.
func (s *AnswerServiceImpl) RecordAnswer(ctx context.Context, req RecordAnswerRequest) (*RecordedAnswer, error) {
	ctx = s.withLogger(ctx)
	log := logger.FromContext(ctx)

	if err := validateSubmission(req.CreatorForeignID, req.Question); err != nil {
		log.Warn("rejected invalid answer request",
			slog.String("error", err.Error()))
		return nil, NewServiceError("record_answer", "invalid request", err)
	}

	var result *RecordedAnswer
	err := store.RunInTransaction(ctx, s.newUnitOfWork(),
		func(ctx context.Context, uow store.UnitOfWork) error {
			creator, _, err := ensureUser(ctx, uow, req.CreatorForeignID)
			if err != nil {
				return err
			}

			question, _, err := ensureQuestion(ctx, uow, creator.UID, req.Question)
			if err != nil {
				return err
			}

			pair, err := domain.NewQuestionWithAnswer(question, req.Value)
			if err != nil {
				return err
			}

			answer, created, err := ensureAnswer(ctx, uow, creator.UID, pair.Key(req.IsCorrect))
			if err != nil {
				return err
			}

			result = &RecordedAnswer{
				Answer:   answer,
				Question: question,
				Created:  created,
			}
			return nil
		})
	if err != nil {
		if domain.IsValidationError(err) || domain.IsAnswerShapeMismatch(err) {
			log.Warn("answer does not fit question",
				slog.String("error", err.Error()),
				slog.String("question_type", req.Question.Type.String()))
		} else {
			log.Error("failed to record answer",
				slog.String("error", err.Error()),
				slog.String("question_type", req.Question.Type.String()))
		}
		return nil, NewServiceError("record_answer", "failed to record answer", err)
	}

	log.Info("answer recorded",
		slog.String("answer_uid", result.Answer.UID.String()),
		slog.String("question_uid", result.Question.UID.String()),
		slog.Bool("created", result.Created))

	return result, nil
}

// GetAnswer retrieves an answer by uid with its question and typed value.
// Returns an error wrapping store.ErrAnswerNotFound for an unknown uid.
func (s *AnswerServiceImpl) GetAnswer(ctx context.Context, uid uuid.UUID) (*AnswerDetails, error) {
	ctx = s.withLogger(ctx)
	log := logger.FromContext(ctx)

	var details *AnswerDetails
	err := store.WithinScope(ctx, s.newUnitOfWork(),
		func(ctx context.Context, uow store.UnitOfWork) error {
			answer, err := uow.Answers().GetByUID(ctx, uid)
			if err != nil {
				return err
			}

			question, err := uow.Questions().GetByUID(ctx, answer.QuestionUID)
			if err != nil {
				return err
			}

			value, err := domain.ParseAnswerValue(question.Type, answer.Answer, answer.ExtraAnswer)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrCorruptAnswer, err)
			}

			details = &AnswerDetails{
				Answer:   answer,
				Question: question,
				Value:    value,
			}
			return nil
		})
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("answer not found",
				slog.String("answer_uid", uid.String()))
		} else {
			log.Error("failed to get answer",
				slog.String("error", err.Error()),
				slog.String("answer_uid", uid.String()))
		}
		return nil, NewServiceError("get_answer", "failed to get answer", err)
	}

	return details, nil
}

func validateSubmission(foreignID string, key domain.QuestionKey) error {
	if err := domain.ValidateForeignID(foreignID); err != nil {
		return err
	}
	return key.Validate()
}

// ensureUser, ensureQuestion and ensureAnswer fetch by natural key and create
// on a miss. A duplicate on create means a concurrent scope won the race, so
// the record is fetched again.

func ensureUser(ctx context.Context, uow store.UnitOfWork, foreignID string) (*domain.User, bool, error) {
	user, err := uow.Users().GetByForeignID(ctx, foreignID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, false, err
	}

	user, err = uow.Users().Create(ctx, foreignID)
	if errors.Is(err, store.ErrUserExists) {
		user, err = uow.Users().GetByForeignID(ctx, foreignID)
		return user, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func ensureQuestion(
	ctx context.Context,
	uow store.UnitOfWork,
	creator uuid.UUID,
	key domain.QuestionKey,
) (*domain.Question, bool, error) {
	question, err := uow.Questions().Get(ctx, key)
	if err == nil {
		return question, false, nil
	}
	if !errors.Is(err, store.ErrQuestionNotFound) {
		return nil, false, err
	}

	question, err = uow.Questions().Create(ctx, key, creator)
	if errors.Is(err, store.ErrQuestionExists) {
		question, err = uow.Questions().Get(ctx, key)
		return question, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return question, true, nil
}

func ensureAnswer(
	ctx context.Context,
	uow store.UnitOfWork,
	creator uuid.UUID,
	key domain.AnswerKey,
) (*domain.Answer, bool, error) {
	answer, err := uow.Answers().Get(ctx, key)
	if err == nil {
		return answer, false, nil
	}
	if !errors.Is(err, store.ErrAnswerNotFound) {
		return nil, false, err
	}

	answer, err = uow.Answers().Create(ctx, key, creator)
	if errors.Is(err, store.ErrAnswerExists) {
		answer, err = uow.Answers().Get(ctx, key)
		return answer, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return answer, true, nil
}
