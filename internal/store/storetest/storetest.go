// Package storetest provides a contract test suite shared by every storage
// backend. A backend passes the suite when its repositories and unit of work
// behave identically to every other backend from the caller's point of view.
package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/store"
	"github.com/stretchr/testify/require"
)

// Factory returns a UnitOfWork over an empty store. The store must live until
// the test and its cleanups finish.
type Factory func(t *testing.T) store.UnitOfWork

// Run executes the whole contract suite against the backend built by newUoW.
// Each subtest receives its own store.
func Run(t *testing.T, newUoW Factory) {
	t.Helper()

	t.Run("UserRoundTrip", func(t *testing.T) { testUserRoundTrip(t, newUoW(t)) })
	t.Run("QuestionRoundTrip", func(t *testing.T) { testQuestionRoundTrip(t, newUoW(t)) })
	t.Run("QuestionOptionsCompareAsSets", func(t *testing.T) { testQuestionOptionsAsSets(t, newUoW(t)) })
	t.Run("QuestionVariantsShareText", func(t *testing.T) { testQuestionVariants(t, newUoW(t)) })
	t.Run("AnswerRoundTrip", func(t *testing.T) { testAnswerRoundTrip(t, newUoW(t)) })
	t.Run("AnswerSequenceOrderMatters", func(t *testing.T) { testAnswerOrder(t, newUoW(t)) })
	t.Run("DuplicateRejection", func(t *testing.T) { testDuplicates(t, newUoW(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newUoW(t)) })
	t.Run("RollbackIsolation", func(t *testing.T) { testRollbackIsolation(t, newUoW(t)) })
	t.Run("RollbackOnError", func(t *testing.T) { testRollbackOnError(t, newUoW(t)) })
	t.Run("RollbackOnPanic", func(t *testing.T) { testRollbackOnPanic(t, newUoW(t)) })
	t.Run("CommitAdvancesBaseline", func(t *testing.T) { testCommitAdvancesBaseline(t, newUoW(t)) })
	t.Run("ReadYourWrites", func(t *testing.T) { testReadYourWrites(t, newUoW(t)) })
	t.Run("ScopeMisuse", func(t *testing.T) { testScopeMisuse(t, newUoW(t)) })
	t.Run("ScopeReuse", func(t *testing.T) { testScopeReuse(t, newUoW(t)) })
	t.Run("DanglingReferences", func(t *testing.T) { testDanglingReferences(t, newUoW(t)) })
	t.Run("ValidationBeforeStorage", func(t *testing.T) { testValidation(t, newUoW(t)) })
}

// inScope runs fn within a scope on uow and fails the test on error.
func inScope(t *testing.T, uow store.UnitOfWork, fn store.ScopeFn) {
	t.Helper()
	require.NoError(t, store.WithinScope(context.Background(), uow, fn))
}

// committed runs fn within a scope on uow and commits it.
func committed(t *testing.T, uow store.UnitOfWork, fn store.ScopeFn) {
	t.Helper()
	require.NoError(t, store.RunInTransaction(context.Background(), uow, fn))
}

func mustUser(ctx context.Context, t *testing.T, uow store.UnitOfWork, foreignID string) *domain.User {
	t.Helper()
	user, err := uow.Users().Create(ctx, foreignID)
	require.NoError(t, err)
	return user
}

func mustQuestion(
	ctx context.Context,
	t *testing.T,
	uow store.UnitOfWork,
	key domain.QuestionKey,
	creator uuid.UUID,
) *domain.Question {
	t.Helper()
	question, err := uow.Questions().Create(ctx, key, creator)
	require.NoError(t, err)
	return question
}

func mustAnswer(
	ctx context.Context,
	t *testing.T,
	uow store.UnitOfWork,
	key domain.AnswerKey,
	creator uuid.UUID,
) *domain.Answer {
	t.Helper()
	answer, err := uow.Answers().Create(ctx, key, creator)
	require.NoError(t, err)
	return answer
}

func matchKey() domain.QuestionKey {
	return domain.QuestionKey{
		Type:         domain.QuestionTypeMatch,
		Text:         "match the capitals",
		Options:      []string{"France", "Italy"},
		ExtraOptions: []string{"Rome", "Paris"},
	}
}

func oneKey() domain.QuestionKey {
	return domain.QuestionKey{
		Type:    domain.QuestionTypeOne,
		Text:    "pick one",
		Options: []string{"1", "2"},
	}
}
