package storetest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUserRoundTrip(t *testing.T, uow store.UnitOfWork) {
	var created *domain.User
	committed(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		created = mustUser(ctx, t, uow, "telegram:42")
		return nil
	})

	assert.NotEqual(t, uuid.Nil, created.UID)
	assert.Equal(t, "telegram:42", created.ForeignID)

	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		byUID, err := uow.Users().GetByUID(ctx, created.UID)
		require.NoError(t, err)
		assert.Equal(t, created, byUID)

		byForeignID, err := uow.Users().GetByForeignID(ctx, "telegram:42")
		require.NoError(t, err)
		assert.Equal(t, created, byForeignID)
		return nil
	})
}

func testQuestionRoundTrip(t *testing.T, uow store.UnitOfWork) {
	freeForm := domain.QuestionKey{Type: domain.QuestionTypeOrder, Text: "order anything"}

	var creator *domain.User
	var match, order *domain.Question
	committed(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		creator = mustUser(ctx, t, uow, "creator")
		match = mustQuestion(ctx, t, uow, matchKey(), creator.UID)
		order = mustQuestion(ctx, t, uow, freeForm, creator.UID)
		return nil
	})

	assert.Equal(t, creator.UID, match.Creator)
	assert.Equal(t, domain.QuestionTypeMatch, match.Type)
	assert.Equal(t, "match the capitals", match.Text)
	assert.Equal(t, []string{"France", "Italy"}, match.Options)
	assert.Equal(t, []string{"Paris", "Rome"}, match.ExtraOptions)
	assert.Empty(t, order.Options)
	assert.Empty(t, order.ExtraOptions)

	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		for _, want := range []*domain.Question{match, order} {
			byUID, err := uow.Questions().GetByUID(ctx, want.UID)
			require.NoError(t, err)
			assert.Equal(t, want, byUID)

			byKey, err := uow.Questions().Get(ctx, want.Key())
			require.NoError(t, err)
			assert.Equal(t, want, byKey)
		}
		return nil
	})
}

func testQuestionOptionsAsSets(t *testing.T, uow store.UnitOfWork) {
	var question *domain.Question
	committed(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		creator := mustUser(ctx, t, uow, "creator")
		question = mustQuestion(ctx, t, uow, domain.QuestionKey{
			Type:    domain.QuestionTypeMany,
			Text:    "pick several",
			Options: []string{"c", "a", "b", "a"},
		}, creator.UID)
		return nil
	})

	assert.Equal(t, []string{"a", "b", "c"}, question.Options)

	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		found, err := uow.Questions().Get(ctx, domain.QuestionKey{
			Type:    domain.QuestionTypeMany,
			Text:    "pick several",
			Options: []string{"b", "c", "a"},
		})
		require.NoError(t, err)
		assert.Equal(t, question.UID, found.UID)

		_, err = uow.Questions().Create(ctx, domain.QuestionKey{
			Type:    domain.QuestionTypeMany,
			Text:    "pick several",
			Options: []string{"a", "b", "c"},
		}, question.Creator)
		assert.ErrorIs(t, err, store.ErrQuestionExists)
		return nil
	})
}

func testQuestionVariants(t *testing.T, uow store.UnitOfWork) {
	keys := []domain.QuestionKey{
		oneKey(),
		{Type: domain.QuestionTypeOne, Text: "pick one", Options: []string{"1", "2", "3"}},
		{Type: domain.QuestionTypeOne, Text: "pick one"},
		{Type: domain.QuestionTypeMany, Text: "pick one", Options: []string{"1", "2"}},
	}

	created := make([]*domain.Question, 0, len(keys))
	committed(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		creator := mustUser(ctx, t, uow, "creator")
		for _, key := range keys {
			created = append(created, mustQuestion(ctx, t, uow, key, creator.UID))
		}
		return nil
	})

	seen := make(map[uuid.UUID]bool)
	for _, q := range created {
		assert.False(t, seen[q.UID], "question uids must be distinct")
		seen[q.UID] = true
	}

	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		for i, key := range keys {
			found, err := uow.Questions().Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, created[i], found)
		}
		return nil
	})
}

func testAnswerRoundTrip(t *testing.T, uow store.UnitOfWork) {
	var correct, wrong *domain.Answer
	var creator *domain.User
	committed(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		creator = mustUser(ctx, t, uow, "creator")
		question := mustQuestion(ctx, t, uow, matchKey(), creator.UID)

		key := domain.AnswerKey{
			QuestionUID: question.UID,
			Answer:      []string{"France", "Italy"},
			ExtraAnswer: []string{"Paris", "Rome"},
			IsCorrect:   true,
		}
		correct = mustAnswer(ctx, t, uow, key, creator.UID)

		key.IsCorrect = false
		wrong = mustAnswer(ctx, t, uow, key, creator.UID)
		return nil
	})

	assert.NotEqual(t, correct.UID, wrong.UID)
	assert.Equal(t, creator.UID, correct.Creator)
	assert.True(t, correct.IsCorrect)
	assert.False(t, wrong.IsCorrect)

	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		for _, want := range []*domain.Answer{correct, wrong} {
			byUID, err := uow.Answers().GetByUID(ctx, want.UID)
			require.NoError(t, err)
			assert.Equal(t, want, byUID)

			byKey, err := uow.Answers().Get(ctx, want.Key())
			require.NoError(t, err)
			assert.Equal(t, want, byKey)
		}
		return nil
	})
}

func testAnswerOrder(t *testing.T, uow store.UnitOfWork) {
	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		creator := mustUser(ctx, t, uow, "creator")
		question := mustQuestion(ctx, t, uow, domain.QuestionKey{
			Type:    domain.QuestionTypeOrder,
			Text:    "sort ascending",
			Options: []string{"1", "2", "3"},
		}, creator.UID)

		forward := domain.AnswerKey{QuestionUID: question.UID, Answer: []string{"1", "2", "3"}, IsCorrect: true}
		backward := domain.AnswerKey{QuestionUID: question.UID, Answer: []string{"3", "2", "1"}, IsCorrect: true}

		created := mustAnswer(ctx, t, uow, forward, creator.UID)

		_, err := uow.Answers().Get(ctx, backward)
		assert.ErrorIs(t, err, store.ErrAnswerNotFound)

		other := mustAnswer(ctx, t, uow, backward, creator.UID)
		assert.NotEqual(t, created.UID, other.UID)
		assert.Equal(t, []string{"3", "2", "1"}, other.Answer)
		return nil
	})
}

func testDuplicates(t *testing.T, uow store.UnitOfWork) {
	var creator *domain.User
	var question *domain.Question
	var answerKey domain.AnswerKey
	committed(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		creator = mustUser(ctx, t, uow, "creator")
		question = mustQuestion(ctx, t, uow, oneKey(), creator.UID)
		answerKey = domain.AnswerKey{QuestionUID: question.UID, Answer: []string{"1"}, IsCorrect: true}
		mustAnswer(ctx, t, uow, answerKey, creator.UID)
		return nil
	})

	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Users().Create(ctx, "creator")
		assert.ErrorIs(t, err, store.ErrUserExists)
		assert.True(t, store.IsDuplicateError(err))

		_, err = uow.Questions().Create(ctx, oneKey(), creator.UID)
		assert.ErrorIs(t, err, store.ErrQuestionExists)
		assert.True(t, store.IsDuplicateError(err))

		_, err = uow.Answers().Create(ctx, answerKey, creator.UID)
		assert.ErrorIs(t, err, store.ErrAnswerExists)
		assert.True(t, store.IsDuplicateError(err))

		// The scope stays usable after a rejected create.
		found, err := uow.Users().GetByForeignID(ctx, "creator")
		require.NoError(t, err)
		assert.Equal(t, creator, found)
		mustUser(ctx, t, uow, "another")
		return nil
	})
}

func testNotFound(t *testing.T, uow store.UnitOfWork) {
	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Users().GetByUID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.True(t, store.IsNotFoundError(err))

		_, err = uow.Users().GetByForeignID(ctx, "nobody")
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		_, err = uow.Questions().GetByUID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrQuestionNotFound)

		_, err = uow.Questions().Get(ctx, oneKey())
		assert.ErrorIs(t, err, store.ErrQuestionNotFound)

		_, err = uow.Answers().GetByUID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrAnswerNotFound)

		_, err = uow.Answers().Get(ctx, domain.AnswerKey{QuestionUID: uuid.New(), Answer: []string{"1"}})
		assert.ErrorIs(t, err, store.ErrAnswerNotFound)
		return nil
	})
}

func testRollbackIsolation(t *testing.T, uow store.UnitOfWork) {
	var creator *domain.User
	committed(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		creator = mustUser(ctx, t, uow, "creator")
		return nil
	})

	var dropped *domain.User
	var droppedQuestion *domain.Question
	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		dropped = mustUser(ctx, t, uow, "dropped")
		droppedQuestion = mustQuestion(ctx, t, uow, oneKey(), creator.UID)
		return nil
	})

	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Users().GetByUID(ctx, dropped.UID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		_, err = uow.Users().GetByForeignID(ctx, "dropped")
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		_, err = uow.Questions().GetByUID(ctx, droppedQuestion.UID)
		assert.ErrorIs(t, err, store.ErrQuestionNotFound)

		kept, err := uow.Users().GetByUID(ctx, creator.UID)
		require.NoError(t, err)
		assert.Equal(t, creator, kept)
		return nil
	})
}

func testRollbackOnError(t *testing.T, uow store.UnitOfWork) {
	errAbort := errors.New("abort")

	err := store.RunInTransaction(context.Background(), uow,
		func(ctx context.Context, uow store.UnitOfWork) error {
			mustUser(ctx, t, uow, "aborted")
			return errAbort
		})
	require.ErrorIs(t, err, errAbort)

	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Users().GetByForeignID(ctx, "aborted")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		return nil
	})
}

func testRollbackOnPanic(t *testing.T, uow store.UnitOfWork) {
	assert.PanicsWithValue(t, "boom", func() {
		_ = store.RunInTransaction(context.Background(), uow,
			func(ctx context.Context, uow store.UnitOfWork) error {
				mustUser(ctx, t, uow, "panicked")
				panic("boom")
			})
	})

	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Users().GetByForeignID(ctx, "panicked")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		return nil
	})
}

func testCommitAdvancesBaseline(t *testing.T, uow store.UnitOfWork) {
	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		mustUser(ctx, t, uow, "first")
		require.NoError(t, uow.Commit(ctx))

		// The scope is still active after Commit.
		mustUser(ctx, t, uow, "second")
		require.NoError(t, uow.Commit(ctx))

		mustUser(ctx, t, uow, "uncommitted")
		return nil
	})

	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		for _, foreignID := range []string{"first", "second"} {
			_, err := uow.Users().GetByForeignID(ctx, foreignID)
			assert.NoError(t, err, foreignID)
		}

		_, err := uow.Users().GetByForeignID(ctx, "uncommitted")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		return nil
	})
}

func testReadYourWrites(t *testing.T, uow store.UnitOfWork) {
	var answer *domain.Answer
	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		creator := mustUser(ctx, t, uow, "creator")
		question := mustQuestion(ctx, t, uow, oneKey(), creator.UID)
		answer = mustAnswer(ctx, t, uow, domain.AnswerKey{
			QuestionUID: question.UID,
			Answer:      []string{"2"},
		}, creator.UID)

		foundUser, err := uow.Users().GetByForeignID(ctx, "creator")
		require.NoError(t, err)
		assert.Equal(t, creator, foundUser)

		foundQuestion, err := uow.Questions().Get(ctx, oneKey())
		require.NoError(t, err)
		assert.Equal(t, question, foundQuestion)

		foundAnswer, err := uow.Answers().GetByUID(ctx, answer.UID)
		require.NoError(t, err)
		assert.Equal(t, answer, foundAnswer)
		return nil
	})

	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Answers().GetByUID(ctx, answer.UID)
		assert.ErrorIs(t, err, store.ErrAnswerNotFound)
		return nil
	})
}

func testScopeMisuse(t *testing.T, uow store.UnitOfWork) {
	ctx := context.Background()
	users := uow.Users()

	_, err := users.GetByUID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNoActiveScope)

	_, err = uow.Questions().Get(ctx, oneKey())
	assert.ErrorIs(t, err, store.ErrNoActiveScope)

	_, err = uow.Answers().Create(ctx, domain.AnswerKey{QuestionUID: uuid.New(), Answer: []string{"1"}}, uuid.New())
	assert.ErrorIs(t, err, store.ErrNoActiveScope)

	assert.ErrorIs(t, uow.Commit(ctx), store.ErrNoActiveScope)
	assert.ErrorIs(t, uow.End(ctx), store.ErrNoActiveScope)

	require.NoError(t, uow.Begin(ctx))
	assert.ErrorIs(t, uow.Begin(ctx), store.ErrScopeActive)

	// Repositories obtained before Begin are bound to the scope.
	created, err := users.Create(ctx, "bound")
	require.NoError(t, err)
	assert.Equal(t, "bound", created.ForeignID)

	require.NoError(t, uow.End(ctx))

	_, err = users.Create(ctx, "late")
	assert.ErrorIs(t, err, store.ErrNoActiveScope)
}

func testScopeReuse(t *testing.T, uow store.UnitOfWork) {
	for _, foreignID := range []string{"one", "two", "three"} {
		committed(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
			mustUser(ctx, t, uow, foreignID)
			return nil
		})
	}

	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		for _, foreignID := range []string{"one", "two", "three"} {
			_, err := uow.Users().GetByForeignID(ctx, foreignID)
			assert.NoError(t, err, foreignID)
		}
		return nil
	})
}

func testDanglingReferences(t *testing.T, uow store.UnitOfWork) {
	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Questions().Create(ctx, oneKey(), uuid.New())
		assert.ErrorIs(t, err, store.ErrInvalidEntity)

		creator := mustUser(ctx, t, uow, "creator")
		question := mustQuestion(ctx, t, uow, oneKey(), creator.UID)

		_, err = uow.Answers().Create(ctx, domain.AnswerKey{
			QuestionUID: uuid.New(),
			Answer:      []string{"1"},
		}, creator.UID)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)

		_, err = uow.Answers().Create(ctx, domain.AnswerKey{
			QuestionUID: question.UID,
			Answer:      []string{"1"},
		}, uuid.New())
		assert.ErrorIs(t, err, store.ErrInvalidEntity)

		mustAnswer(ctx, t, uow, domain.AnswerKey{QuestionUID: question.UID, Answer: []string{"1"}}, creator.UID)
		return nil
	})
}

func testValidation(t *testing.T, uow store.UnitOfWork) {
	inScope(t, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Users().Create(ctx, "")
		assert.ErrorIs(t, err, domain.ErrEmptyForeignID)

		_, err = uow.Users().Create(ctx, strings.Repeat("x", domain.MaxForeignIDLength+1))
		assert.ErrorIs(t, err, domain.ErrForeignIDTooLong)

		_, err = uow.Users().GetByForeignID(ctx, "")
		assert.ErrorIs(t, err, domain.ErrEmptyForeignID)

		creator := mustUser(ctx, t, uow, "creator")

		_, err = uow.Questions().Create(ctx, domain.QuestionKey{
			Type:         domain.QuestionTypeOne,
			Text:         "pick one",
			Options:      []string{"1", "2"},
			ExtraOptions: []string{"a"},
		}, creator.UID)
		assert.ErrorIs(t, err, domain.ErrInconsistentOptions)
		assert.True(t, domain.IsValidationError(err))

		_, err = uow.Questions().Create(ctx, oneKey(), uuid.Nil)
		assert.ErrorIs(t, err, domain.ErrEmptyCreator)

		question := mustQuestion(ctx, t, uow, oneKey(), creator.UID)

		_, err = uow.Answers().Create(ctx, domain.AnswerKey{QuestionUID: question.UID}, creator.UID)
		assert.ErrorIs(t, err, domain.ErrEmptyAnswer)

		_, err = uow.Answers().Create(ctx, domain.AnswerKey{
			QuestionUID: question.UID,
			Answer:      []string{""},
		}, creator.UID)
		assert.ErrorIs(t, err, domain.ErrEmptyAnswer)
		return nil
	})
}
