package memory_test

import (
	"context"
	"testing"

	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/platform/memory"
	"github.com/kittens-answers/answers-core/internal/store"
	"github.com/kittens-answers/answers-core/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.UnitOfWork {
		l, _ := logger.GetTestLogger(t)
		return memory.New(l)
	})
}

func TestCreateIsLogged(t *testing.T) {
	l, buf := logger.GetTestLogger(t)
	uow := memory.New(l)

	require.NoError(t, store.RunInTransaction(context.Background(), uow,
		func(ctx context.Context, uow store.UnitOfWork) error {
			_, err := uow.Users().Create(ctx, "logged")
			return err
		}))

	logger.AssertLogContains(t, buf, "user created successfully")

	messages, err := buf.ComponentEntries("memory_unit_of_work")
	require.NoError(t, err)
	assert.Equal(t, []string{"scope begun", "scope committed", "scope ended"}, messages)

	messages, err = buf.ComponentEntries("memory_user_repository")
	require.NoError(t, err)
	assert.Contains(t, messages, "user created successfully")
}

func TestUnitOfWorksDoNotShareState(t *testing.T) {
	ctx := context.Background()
	first := memory.New(nil)
	second := memory.New(nil)

	require.NoError(t, store.RunInTransaction(ctx, first, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Users().Create(ctx, "only-in-first")
		return err
	}))

	require.NoError(t, store.WithinScope(ctx, second, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Users().GetByForeignID(ctx, "only-in-first")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		return nil
	}))
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	uow := memory.New(nil)

	require.NoError(t, store.RunInTransaction(ctx, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		user, err := uow.Users().Create(ctx, "original")
		require.NoError(t, err)

		user.ForeignID = "mutated"

		found, err := uow.Users().GetByUID(ctx, user.UID)
		require.NoError(t, err)
		assert.Equal(t, "original", found.ForeignID)
		return nil
	}))
}

func TestInjectedRepositories(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository(nil)
	questions := memory.NewQuestionRepository(nil)
	answers := memory.NewAnswerRepository(nil)

	_, err := users.Create(ctx, "unbound")
	assert.ErrorIs(t, err, store.ErrNoActiveScope, "unbound repositories have no scope")

	uow := memory.NewUnitOfWork(nil, users, questions, answers)
	assert.Same(t, users, uow.Users())
	assert.Same(t, questions, uow.Questions())
	assert.Same(t, answers, uow.Answers())

	require.NoError(t, store.RunInTransaction(ctx, uow, func(ctx context.Context, _ store.UnitOfWork) error {
		_, err := users.Create(ctx, "bound")
		return err
	}))

	assert.Panics(t, func() { memory.NewUnitOfWork(nil, nil, questions, answers) })
}
