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

// questionSelect joins a question with its root question.
const questionSelect = `
	SELECT q.uid, q.creator_uid, r.question_type, r.text, q.options, q.extra_options
	FROM questions q
	JOIN root_questions r ON r.uid = q.root_question_uid
`

// QuestionRepository implements store.QuestionRepository
// using an SQLite database as the storage backend.
type QuestionRepository struct {
	logger *slog.Logger
	scope  *sqltx.Scope
}

// Ensure QuestionRepository implements store.QuestionRepository interface
var _ store.QuestionRepository = (*QuestionRepository)(nil)

// NewQuestionRepository creates a QuestionRepository.
// If logger is nil, a default logger will be used.
func NewQuestionRepository(logger *slog.Logger) *QuestionRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &QuestionRepository{
		logger: logger.With(slog.String("component", "sqlite_question_repository")),
	}
}

// GetByUID implements store.QuestionRepository.GetByUID
func (r *QuestionRepository) GetByUID(ctx context.Context, uid uuid.UUID) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	db, err := r.scope.Conn()
	if err != nil {
		return nil, err
	}

	log.Debug("retrieving question by uid", slog.String("question_uid", uid.String()))

	query := questionSelect + `WHERE q.uid = ?`
	return r.get(log, db.QueryRowContext(ctx, query, uid.String()))
}

// Get implements store.QuestionRepository.Get
// Option sets are sorted before encoding, so equal sets have equal columns.
func (r *QuestionRepository) Get(ctx context.Context, key domain.QuestionKey) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	db, err := r.scope.Conn()
	if err != nil {
		return nil, err
	}

	key = key.Normalize()
	log.Debug("retrieving question by key", slog.String("question_type", key.Type.String()))

	query := questionSelect + `
		WHERE r.question_type = ?
		  AND r.text = ?
		  AND q.options = ?
		  AND q.extra_options = ?
	`

	return r.get(log, db.QueryRowContext(ctx, query,
		string(key.Type), key.Text, encodeList(key.Options), encodeList(key.ExtraOptions)))
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

	db, err := r.scope.Conn()
	if err != nil {
		return nil, err
	}

	found, err := exists(ctx, db, userExistsQuery, creator)
	if err != nil {
		log.Error("failed to check question creator", slog.String("error", err.Error()))
		return nil, err
	}
	if !found {
		log.Warn("question creator does not exist",
			slog.String("creator_uid", creator.String()))
		return nil, fmt.Errorf("%w: user with uid %s not found", store.ErrInvalidEntity, creator)
	}

	rootUID, err := r.ensureRoot(ctx, db, question)
	if err != nil {
		log.Error("failed to create root question",
			slog.String("error", err.Error()),
			slog.String("question_type", question.Type.String()))
		return nil, err
	}

	query := `
		INSERT INTO questions (uid, root_question_uid, creator_uid, options, extra_options)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (root_question_uid, options, extra_options) DO NOTHING
	`

	result, err := db.ExecContext(ctx, query,
		question.UID.String(),
		rootUID,
		question.Creator.String(),
		encodeList(question.Options),
		encodeList(question.ExtraOptions),
	)
	if err != nil {
		log.Error("failed to create question",
			slog.String("error", err.Error()),
			slog.String("question_uid", question.UID.String()))
		return nil, mapCreateError(err, store.ErrQuestionExists)
	}

	if err := checkInserted(result, store.ErrQuestionExists); err != nil {
		log.Warn("question was not created",
			slog.String("error", err.Error()),
			slog.String("question_type", question.Type.String()))
		return nil, err
	}

	log.Info("question created successfully",
		slog.String("question_uid", question.UID.String()),
		slog.String("creator_uid", creator.String()),
		slog.String("question_type", question.Type.String()))
	return question, nil
}

// ensureRoot returns the uid of the root question of q, creating it if needed.
func (r *QuestionRepository) ensureRoot(ctx context.Context, db store.DBTX, q *domain.Question) (string, error) {
	insert := `
		INSERT INTO root_questions (uid, question_type, text)
		VALUES (?, ?, ?)
		ON CONFLICT (question_type, text) DO NOTHING
	`
	if _, err := db.ExecContext(ctx, insert, uuid.NewString(), string(q.Type), q.Text); err != nil {
		return "", fmt.Errorf("failed to insert root question: %w", MapError(err))
	}

	query := `SELECT uid FROM root_questions WHERE question_type = ? AND text = ?`

	var rootUID string
	if err := db.QueryRowContext(ctx, query, string(q.Type), q.Text).Scan(&rootUID); err != nil {
		return "", fmt.Errorf("failed to get root question: %w", MapError(err))
	}

	return rootUID, nil
}

func (r *QuestionRepository) get(log *slog.Logger, row rowScanner) (*domain.Question, error) {
	var (
		uid, creator          uuid.UUID
		questionType, text    string
		options, extraOptions string
	)

	if err := row.Scan(&uid, &creator, &questionType, &text, &options, &extraOptions); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("question not found")
			return nil, store.ErrQuestionNotFound
		}

		log.Error("failed to get question", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get question: %w", MapError(err))
	}

	key := domain.QuestionKey{Type: domain.QuestionType(questionType), Text: text}

	var err error
	if key.Options, err = decodeList(options); err != nil {
		return nil, err
	}
	if key.ExtraOptions, err = decodeList(extraOptions); err != nil {
		return nil, err
	}

	question, err := domain.RestoreQuestion(uid, creator, key)
	if err != nil {
		log.Error("stored question is invalid",
			slog.String("error", err.Error()),
			slog.String("question_uid", uid.String()))
		return nil, fmt.Errorf("failed to restore question %s: %w", uid, err)
	}

	return question, nil
}
