package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingUnitOfWork records the scope calls made on it.
type recordingUnitOfWork struct {
	calls     []string
	beginErr  error
	commitErr error
	endErr    error
}

func (u *recordingUnitOfWork) Begin(context.Context) error {
	u.calls = append(u.calls, "begin")
	return u.beginErr
}

func (u *recordingUnitOfWork) Commit(context.Context) error {
	u.calls = append(u.calls, "commit")
	return u.commitErr
}

func (u *recordingUnitOfWork) End(context.Context) error {
	u.calls = append(u.calls, "end")
	return u.endErr
}

func (u *recordingUnitOfWork) Users() UserRepository         { return nil }
func (u *recordingUnitOfWork) Questions() QuestionRepository { return nil }
func (u *recordingUnitOfWork) Answers() AnswerRepository     { return nil }

func TestRunInTransaction_Success(t *testing.T) {
	uow := &recordingUnitOfWork{}

	err := RunInTransaction(context.Background(), uow, func(ctx context.Context, uow UnitOfWork) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"begin", "commit", "end"}, uow.calls)
}

func TestRunInTransaction_FunctionError(t *testing.T) {
	uow := &recordingUnitOfWork{}
	expectedErr := errors.New("function failed")

	err := RunInTransaction(context.Background(), uow, func(ctx context.Context, uow UnitOfWork) error {
		return expectedErr
	})

	assert.Equal(t, expectedErr, err)
	assert.Equal(t, []string{"begin", "end"}, uow.calls, "no commit after a failed body")
}

func TestRunInTransaction_CommitError(t *testing.T) {
	uow := &recordingUnitOfWork{commitErr: errors.New("disk full")}

	err := RunInTransaction(context.Background(), uow, func(ctx context.Context, uow UnitOfWork) error {
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, uow.commitErr)
	assert.Equal(t, []string{"begin", "commit", "end"}, uow.calls)
}

func TestWithinScope_BeginError(t *testing.T) {
	uow := &recordingUnitOfWork{beginErr: ErrScopeActive}
	called := false

	err := WithinScope(context.Background(), uow, func(ctx context.Context, uow UnitOfWork) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrScopeActive)
	assert.False(t, called)
	assert.Equal(t, []string{"begin"}, uow.calls)
}

func TestWithinScope_EndErrorKeepsOriginal(t *testing.T) {
	uow := &recordingUnitOfWork{endErr: errors.New("connection lost")}
	bodyErr := errors.New("body failed")

	err := WithinScope(context.Background(), uow, func(ctx context.Context, uow UnitOfWork) error {
		return bodyErr
	})

	assert.ErrorIs(t, err, bodyErr)
	assert.Contains(t, err.Error(), "connection lost")
}

func TestWithinScope_DoesNotCommit(t *testing.T) {
	uow := &recordingUnitOfWork{}

	err := WithinScope(context.Background(), uow, func(ctx context.Context, uow UnitOfWork) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"begin", "end"}, uow.calls)
}

func TestWithinScope_Panic(t *testing.T) {
	uow := &recordingUnitOfWork{}

	assert.PanicsWithValue(t, "boom", func() {
		_ = WithinScope(context.Background(), uow, func(ctx context.Context, uow UnitOfWork) error {
			panic("boom")
		})
	})
	assert.Equal(t, []string{"begin", "end"}, uow.calls, "scope is released on panic")
}
