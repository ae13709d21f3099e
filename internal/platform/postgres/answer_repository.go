package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/platform/sqltx"
	"github.com/kittens-answers/answers-core/internal/store"
)

// AnswerRepository implements store.AnswerRepository
// using a PostgreSQL database as the storage backend.
type AnswerRepository struct {
	logger *slog.Logger
	scope  *sqltx.Scope
	types  *pgtype.Map
}

// Ensure AnswerRepository implements store.AnswerRepository interface
var _ store.AnswerRepository = (*AnswerRepository)(nil)

// NewAnswerRepository creates an AnswerRepository.
// If logger is nil, a default logger will be used.
func NewAnswerRepository(logger *slog.Logger) *AnswerRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &AnswerRepository{
		logger: logger.With(slog.String("component", "answer_repository")),
		types:  pgtype.NewMap(),
	}
}

// GetByUID implements store.AnswerRepository.GetByUID
// Returns store.ErrAnswerNotFound if the answer does not exist.
func (r *AnswerRepository) GetByUID(ctx context.Context, uid uuid.UUID) (*domain.Answer, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	db, err := r.scope.Conn()
	if err != nil {
		return nil, err
	}

	log.Debug("retrieving answer by uid", slog.String("answer_uid", uid.String()))

	query := `
		SELECT uid, creator_uid, question_uid, answer, extra_answer, is_correct
		FROM answers
		WHERE uid = $1
	`

	return r.get(log, db.QueryRowContext(ctx, query, uid))
}

// Get implements store.AnswerRepository.Get
// Answer sequences are compared in order.
func (r *AnswerRepository) Get(ctx context.Context, key domain.AnswerKey) (*domain.Answer, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	db, err := r.scope.Conn()
	if err != nil {
		return nil, err
	}

	log.Debug("retrieving answer by key", slog.String("question_uid", key.QuestionUID.String()))

	query := `
		SELECT uid, creator_uid, question_uid, answer, extra_answer, is_correct
		FROM answers
		WHERE question_uid = $1
		  AND answer = $2
		  AND extra_answer = $3
		  AND is_correct = $4
	`

	return r.get(log, db.QueryRowContext(ctx, query,
		key.QuestionUID, textArray(key.Answer), textArray(key.ExtraAnswer), key.IsCorrect))
}

// Create implements store.AnswerRepository.Create
// Returns domain validation errors for an invalid key, store.ErrInvalidEntity
// if the creator or the question does not exist and store.ErrAnswerExists if
// the same content was already recorded.
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

	db, err := r.scope.Conn()
	if err != nil {
		return nil, err
	}

	if err := r.checkReferences(ctx, log, db, answer); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO answers (uid, question_uid, creator_uid, answer, extra_answer, is_correct)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (question_uid, answer, extra_answer, is_correct) DO NOTHING
	`

	result, err := db.ExecContext(ctx, query,
		answer.UID, answer.QuestionUID, answer.Creator, answer.Answer, answer.ExtraAnswer, answer.IsCorrect)
	if err != nil {
		log.Error("failed to create answer",
			slog.String("error", err.Error()),
			slog.String("answer_uid", answer.UID.String()))
		return nil, mapCreateError(err, store.ErrAnswerExists)
	}

	if err := checkInserted(result, store.ErrAnswerExists); err != nil {
		log.Warn("answer was not created",
			slog.String("error", err.Error()),
			slog.String("question_uid", answer.QuestionUID.String()))
		return nil, err
	}

	log.Info("answer created successfully",
		slog.String("answer_uid", answer.UID.String()),
		slog.String("question_uid", answer.QuestionUID.String()),
		slog.Bool("is_correct", answer.IsCorrect))
	return answer, nil
}

// checkReferences verifies that the creator and the question of an answer exist.
func (r *AnswerRepository) checkReferences(
	ctx context.Context,
	log *slog.Logger,
	db store.DBTX,
	a *domain.Answer,
) error {
	found, err := exists(ctx, db, userExistsQuery, a.Creator)
	if err != nil {
		log.Error("failed to check answer creator", slog.String("error", err.Error()))
		return err
	}
	if !found {
		log.Warn("answer creator does not exist", slog.String("creator_uid", a.Creator.String()))
		return fmt.Errorf("%w: user with uid %s not found", store.ErrInvalidEntity, a.Creator)
	}

	found, err = exists(ctx, db, questionExistsQuery, a.QuestionUID)
	if err != nil {
		log.Error("failed to check answered question", slog.String("error", err.Error()))
		return err
	}
	if !found {
		log.Warn("answered question does not exist", slog.String("question_uid", a.QuestionUID.String()))
		return fmt.Errorf("%w: question with uid %s not found", store.ErrInvalidEntity, a.QuestionUID)
	}

	return nil
}

func (r *AnswerRepository) get(log *slog.Logger, row rowScanner) (*domain.Answer, error) {
	var (
		uid, creator, questionUID uuid.UUID
		answer, extraAnswer       []string
		isCorrect                 bool
	)

	err := row.Scan(
		&uid,
		&creator,
		&questionUID,
		r.types.SQLScanner(&answer),
		r.types.SQLScanner(&extraAnswer),
		&isCorrect,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("answer not found")
			return nil, store.ErrAnswerNotFound
		}

		log.Error("failed to get answer", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get answer: %w", MapError(err))
	}

	restored, err := domain.RestoreAnswer(uid, creator, domain.AnswerKey{
		QuestionUID: questionUID,
		Answer:      answer,
		ExtraAnswer: extraAnswer,
		IsCorrect:   isCorrect,
	})
	if err != nil {
		log.Error("stored answer is invalid",
			slog.String("error", err.Error()),
			slog.String("answer_uid", uid.String()))
		return nil, fmt.Errorf("failed to restore answer %s: %w", uid, err)
	}

	return restored, nil
}
