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

// UserRepository implements store.UserRepository
// using an SQLite database as the storage backend.
type UserRepository struct {
	logger *slog.Logger
	scope  *sqltx.Scope
}

// Ensure UserRepository implements store.UserRepository interface
var _ store.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a UserRepository.
// If logger is nil, a default logger will be used.
func NewUserRepository(logger *slog.Logger) *UserRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &UserRepository{
		logger: logger.With(slog.String("component", "sqlite_user_repository")),
	}
}

// GetByUID implements store.UserRepository.GetByUID
func (r *UserRepository) GetByUID(ctx context.Context, uid uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	db, err := r.scope.Conn()
	if err != nil {
		return nil, err
	}

	log.Debug("retrieving user by uid", slog.String("user_uid", uid.String()))

	query := `SELECT uid, foreign_id FROM users WHERE uid = ?`
	return r.get(log, db.QueryRowContext(ctx, query, uid.String()))
}

// GetByForeignID implements store.UserRepository.GetByForeignID
func (r *UserRepository) GetByForeignID(ctx context.Context, foreignID string) (*domain.User, error) {
	if err := domain.ValidateForeignID(foreignID); err != nil {
		return nil, err
	}

	log := logger.FromContextOrDefault(ctx, r.logger)

	db, err := r.scope.Conn()
	if err != nil {
		return nil, err
	}

	log.Debug("retrieving user by foreign id", slog.String("foreign_id", foreignID))

	query := `SELECT uid, foreign_id FROM users WHERE foreign_id = ?`
	return r.get(log, db.QueryRowContext(ctx, query, foreignID))
}

// Create implements store.UserRepository.Create
func (r *UserRepository) Create(ctx context.Context, foreignID string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	user, err := domain.NewUser(foreignID)
	if err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()))
		return nil, err
	}

	db, err := r.scope.Conn()
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (uid, foreign_id)
		VALUES (?, ?)
		ON CONFLICT (foreign_id) DO NOTHING
	`

	result, err := db.ExecContext(ctx, query, user.UID.String(), user.ForeignID)
	if err != nil {
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_uid", user.UID.String()))
		return nil, mapCreateError(err, store.ErrUserExists)
	}

	if err := checkInserted(result, store.ErrUserExists); err != nil {
		log.Warn("user was not created",
			slog.String("error", err.Error()),
			slog.String("foreign_id", foreignID))
		return nil, err
	}

	log.Info("user created successfully",
		slog.String("user_uid", user.UID.String()))
	return user, nil
}

func (r *UserRepository) get(log *slog.Logger, row rowScanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.UID, &user.ForeignID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}

		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user: %w", MapError(err))
	}

	return &user, nil
}
