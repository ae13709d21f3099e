package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/platform/sqltx"
	"github.com/kittens-answers/answers-core/internal/store"
)

const answerSelect = `
	SELECT uid, creator_uid, question_uid, answer, extra_answer, is_correct
	FROM answers
`

// AnswerRepository implements store.AnswerRepository
// using an SQLite database as the storage backend.
type AnswerRepository struct {
	logger *slog.Logger
	scope  *sqltx.Scope
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
		logger: logger.With(slog.String("component", "sqlite_answer_repository")),
	}
}

// GetByUID implements store.AnswerRepository.GetByUID
func (r *AnswerRepository) GetByUID(ctx context.Context, uid uuid.UUID) (*domain.Answer, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	db, err := r.scope.Conn()
	if err != nil {
		return nil, err
	}

	log.Debug("retrieving answer by uid", slog.String("answer_uid", uid.String()))

	return r.get(log, db.QueryRowContext(ctx, answerSelect+`WHERE uid = ?`, uid.String()))
}

// Get implements store.AnswerRepository.Get
func (r *AnswerRepository) Get(ctx context.Context, key domain.AnswerKey) (*domain.Answer, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	db, err := r.scope.Conn()
	if err != nil {
		return nil, err
	}

	log.Debug("retrieving answer by key", slog.String("question_uid", key.QuestionUID.String()))

	query := answerSelect + `
		WHERE question_uid = ?
		  AND answer = ?
		  AND extra_answer = ?
		  AND is_correct = ?
	`

	return r.get(log, db.QueryRowContext(ctx, query,
		key.QuestionUID.String(), encodeList(key.Answer), encodeList(key.ExtraAnswer), key.IsCorrect))
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

	db, err := r.scope.Conn()
	if err != nil {
		return nil, err
	}

	if err := r.checkReferences(ctx, log, db, answer); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO answers (uid, question_uid, creator_uid, answer, extra_answer, is_correct)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (question_uid, answer, extra_answer, is_correct) DO NOTHING
	`

	result, err := db.ExecContext(ctx, query,
		answer.UID.String(),
		answer.QuestionUID.String(),
		answer.Creator.String(),
		encodeList(answer.Answer),
		encodeList(answer.ExtraAnswer),
		answer.IsCorrect,
	)
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
		answer, extraAnswer       string
		isCorrect                 bool
	)

	err := row.Scan(&uid, &creator, &questionUID, &answer, &extraAnswer, &isCorrect)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("answer not found")
			return nil, store.ErrAnswerNotFound
		}

		log.Error("failed to get answer", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get answer: %w", MapError(err))
	}

	key := domain.AnswerKey{QuestionUID: questionUID, IsCorrect: isCorrect}
	if key.Answer, err = decodeList(answer); err != nil {
		return nil, err
	}
	if key.ExtraAnswer, err = decodeList(extraAnswer); err != nil {
		return nil, err
	}

	restored, err := domain.RestoreAnswer(uid, creator, key)
	if err != nil {
		log.Error("stored answer is invalid",
			slog.String("error", err.Error()),
			slog.String("answer_uid", uid.String()))
		return nil, fmt.Errorf("failed to restore answer %s: %w", uid, err)
	}

	return restored, nil
}
