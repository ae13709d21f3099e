package memory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/store"
)

// AnswerRepository implements store.AnswerRepository over an in-memory map.
type AnswerRepository struct {
	logger    *slog.Logger
	scope     *scope
	users     *UserRepository
	questions *QuestionRepository
	answers   map[uuid.UUID]*domain.Answer
}

// Ensure AnswerRepository implements store.AnswerRepository interface
var _ store.AnswerRepository = (*AnswerRepository)(nil)

// NewAnswerRepository creates an empty AnswerRepository.
// If logger is nil, a default logger will be used.
func NewAnswerRepository(logger *slog.Logger) *AnswerRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &AnswerRepository{
		logger:  logger.With(slog.String("component", "memory_answer_repository")),
		answers: make(map[uuid.UUID]*domain.Answer),
	}
}

// GetByUID implements store.AnswerRepository.GetByUID
func (r *AnswerRepository) GetByUID(ctx context.Context, uid uuid.UUID) (*domain.Answer, error) {
	if err := r.scope.check(); err != nil {
		return nil, err
	}

	answer, ok := r.answers[uid]
	if !ok {
		logger.FromContextOrDefault(ctx, r.logger).Debug("answer not found",
			slog.String("answer_uid", uid.String()))
		return nil, store.ErrAnswerNotFound
	}

	return answer.Clone(), nil
}

// Get implements store.AnswerRepository.Get
func (r *AnswerRepository) Get(ctx context.Context, key domain.AnswerKey) (*domain.Answer, error) {
	if err := r.scope.check(); err != nil {
		return nil, err
	}

	if answer := r.find(key); answer != nil {
		return answer.Clone(), nil
	}

	logger.FromContextOrDefault(ctx, r.logger).Debug("answer not found",
		slog.String("question_uid", key.QuestionUID.String()))
	return nil, store.ErrAnswerNotFound
}

// Create implements store.AnswerRepository.Create
func (r *AnswerRepository) Create(
	ctx context.Context,
	key domain.AnswerKey,
	creator uuid.UUID,
) (*domain.Answer, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	answer, err := domain.NewAnswer(creator, key)
	if err != nil {
		log.Warn("answer validation failed during create",
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := r.scope.check(); err != nil {
		return nil, err
	}

	if !r.users.exists(creator) {
		log.Warn("answer creator does not exist",
			slog.String("creator_uid", creator.String()))
		return nil, fmt.Errorf("%w: user with uid %s not found", store.ErrInvalidEntity, creator)
	}

	if !r.questions.exists(key.QuestionUID) {
		log.Warn("answered question does not exist",
			slog.String("question_uid", key.QuestionUID.String()))
		return nil, fmt.Errorf("%w: question with uid %s not found", store.ErrInvalidEntity, key.QuestionUID)
	}

	if r.find(key) != nil {
		log.Warn("answer already exists",
			slog.String("question_uid", key.QuestionUID.String()))
		return nil, store.ErrAnswerExists
	}

	r.answers[answer.UID] = answer.Clone()

	log.Info("answer created successfully",
		slog.String("answer_uid", answer.UID.String()),
		slog.String("question_uid", answer.QuestionUID.String()),
		slog.Bool("is_correct", answer.IsCorrect))
	return answer, nil
}

func (r *AnswerRepository) find(key domain.AnswerKey) *domain.Answer {
	for _, answer := range r.answers {
		if answer.Key().Equal(key) {
			return answer
		}
	}
	return nil
}
