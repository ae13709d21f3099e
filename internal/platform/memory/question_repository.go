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

// QuestionRepository implements store.QuestionRepository over an in-memory map.
type QuestionRepository struct {
	logger    *slog.Logger
	scope     *scope
	users     *UserRepository
	questions map[uuid.UUID]*domain.Question
}

// Ensure QuestionRepository implements store.QuestionRepository interface
var _ store.QuestionRepository = (*QuestionRepository)(nil)

// NewQuestionRepository creates an empty QuestionRepository.
// If logger is nil, a default logger will be used.
func NewQuestionRepository(logger *slog.Logger) *QuestionRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &QuestionRepository{
		logger:    logger.With(slog.String("component", "memory_question_repository")),
		questions: make(map[uuid.UUID]*domain.Question),
	}
}

// GetByUID implements store.QuestionRepository.GetByUID
func (r *QuestionRepository) GetByUID(ctx context.Context, uid uuid.UUID) (*domain.Question, error) {
	if err := r.scope.check(); err != nil {
		return nil, err
	}

	question, ok := r.questions[uid]
	if !ok {
		logger.FromContextOrDefault(ctx, r.logger).Debug("question not found",
			slog.String("question_uid", uid.String()))
		return nil, store.ErrQuestionNotFound
	}

	return question.Clone(), nil
}

// Get implements store.QuestionRepository.Get
func (r *QuestionRepository) Get(ctx context.Context, key domain.QuestionKey) (*domain.Question, error) {
	if err := r.scope.check(); err != nil {
		return nil, err
	}

	if question := r.find(key); question != nil {
		return question.Clone(), nil
	}

	logger.FromContextOrDefault(ctx, r.logger).Debug("question not found",
		slog.String("question_type", key.Type.String()))
	return nil, store.ErrQuestionNotFound
}

// Create implements store.QuestionRepository.Create
func (r *QuestionRepository) Create(
	ctx context.Context,
	key domain.QuestionKey,
	creator uuid.UUID,
) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	question, err := domain.NewQuestion(creator, key)
	if err != nil {
		log.Warn("question validation failed during create",
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := r.scope.check(); err != nil {
		return nil, err
	}

	if !r.users.exists(creator) {
		log.Warn("question creator does not exist",
			slog.String("creator_uid", creator.String()))
		return nil, fmt.Errorf("%w: user with uid %s not found", store.ErrInvalidEntity, creator)
	}

	if r.find(key) != nil {
		log.Warn("question already exists",
			slog.String("question_type", key.Type.String()))
		return nil, store.ErrQuestionExists
	}

	r.questions[question.UID] = question.Clone()

	log.Info("question created successfully",
		slog.String("question_uid", question.UID.String()),
		slog.String("creator_uid", creator.String()),
		slog.String("question_type", question.Type.String()))
	return question, nil
}

func (r *QuestionRepository) find(key domain.QuestionKey) *domain.Question {
	for _, question := range r.questions {
		if question.Key().Equal(key) {
			return question
		}
	}
	return nil
}

func (r *QuestionRepository) exists(uid uuid.UUID) bool {
	_, ok := r.questions[uid]
	return ok
}
