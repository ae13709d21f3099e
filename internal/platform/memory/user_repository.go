package memory

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/store"
)

// UserRepository implements store.UserRepository over an in-memory map.
type UserRepository struct {
	logger *slog.Logger
	scope  *scope
	users  map[uuid.UUID]*domain.User
}

// Ensure UserRepository implements store.UserRepository interface
var _ store.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates an empty UserRepository. It becomes usable once it
// is bound to a UnitOfWork and a scope is active.
// If logger is nil, a default logger will be used.
func NewUserRepository(logger *slog.Logger) *UserRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &UserRepository{
		logger: logger.With(slog.String("component", "memory_user_repository")),
		users:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByUID implements store.UserRepository.GetByUID
func (r *UserRepository) GetByUID(ctx context.Context, uid uuid.UUID) (*domain.User, error) {
	if err := r.scope.check(); err != nil {
		return nil, err
	}

	user, ok := r.users[uid]
	if !ok {
		logger.FromContextOrDefault(ctx, r.logger).Debug("user not found",
			slog.String("user_uid", uid.String()))
		return nil, store.ErrUserNotFound
	}

	return user.Clone(), nil
}

// GetByForeignID implements store.UserRepository.GetByForeignID
func (r *UserRepository) GetByForeignID(ctx context.Context, foreignID string) (*domain.User, error) {
	if err := domain.ValidateForeignID(foreignID); err != nil {
		return nil, err
	}

	if err := r.scope.check(); err != nil {
		return nil, err
	}

	if user := r.findByForeignID(foreignID); user != nil {
		return user.Clone(), nil
	}

	logger.FromContextOrDefault(ctx, r.logger).Debug("user not found",
		slog.String("foreign_id", foreignID))
	return nil, store.ErrUserNotFound
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

	if err := r.scope.check(); err != nil {
		return nil, err
	}

	if r.findByForeignID(foreignID) != nil {
		log.Warn("user already exists", slog.String("foreign_id", foreignID))
		return nil, store.ErrUserExists
	}

	r.users[user.UID] = user.Clone()

	log.Info("user created successfully",
		slog.String("user_uid", user.UID.String()))
	return user, nil
}

func (r *UserRepository) findByForeignID(foreignID string) *domain.User {
	for _, user := range r.users {
		if user.ForeignID == foreignID {
			return user
		}
	}
	return nil
}

func (r *UserRepository) exists(uid uuid.UUID) bool {
	_, ok := r.users[uid]
	return ok
}
