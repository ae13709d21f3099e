package bank_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kittens-answers/answers-core/internal/bank"
	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/platform/memory"
	"github.com/kittens-answers/answers-core/internal/service"
	"github.com/kittens-answers/answers-core/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l, logBuf := logger.GetTestLogger(t)
	uow := memory.New(l)
	svc := service.NewAnswerService(service.SharedUnitOfWork(uow), l)

	b, err := bank.LoadFile("testdata/geography.yaml")
	require.NoError(t, err)

	first, err := bank.Import(ctx, svc, b, l)
	require.NoError(t, err)
	assert.Equal(t, &bank.Report{Questions: 5, Created: 5, Existing: 0}, first)
	logger.AssertLogContains(t, logBuf, "question bank imported")

	second, err := bank.Import(ctx, svc, b, l)
	require.NoError(t, err)
	assert.Equal(t, &bank.Report{Questions: 5, Created: 0, Existing: 5}, second)

	err = store.WithinScope(ctx, uow, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Users().GetByForeignID(ctx, "tg:42")
		require.NoError(t, err)

		q, err := uow.Questions().Get(ctx, domain.QuestionKey{
			Type: domain.QuestionTypeOne,
			Text: "Name a country in Oceania",
		})
		require.NoError(t, err)
		assert.False(t, q.HasOptions())
		return nil
	})
	require.NoError(t, err)
}

type failingRecorder struct {
	service.AnswerService
	failAt int
	calls  int
}

var errRecorder = errors.New("recorder unavailable")

func (r *failingRecorder) RecordAnswer(
	ctx context.Context,
	req service.RecordAnswerRequest,
) (*service.RecordedAnswer, error) {
	r.calls++
	if r.calls == r.failAt {
		return nil, errRecorder
	}
	return r.AnswerService.RecordAnswer(ctx, req)
}

func TestImportStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	l, _ := logger.GetTestLogger(t)
	svc := service.NewAnswerService(service.SharedUnitOfWork(memory.New(l)), l)

	b, err := bank.LoadFile("testdata/geography.yaml")
	require.NoError(t, err)

	rec := &failingRecorder{AnswerService: svc, failAt: 3}
	report, err := bank.Import(ctx, rec, b, l)
	require.Error(t, err)
	assert.ErrorIs(t, err, errRecorder)
	assert.Contains(t, err.Error(), "question 2 answer 1")
	assert.Equal(t, &bank.Report{Questions: 2, Created: 2, Existing: 0}, report)
}

func TestImportHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l, _ := logger.GetTestLogger(t)
	svc := service.NewAnswerService(service.SharedUnitOfWork(memory.New(l)), l)

	b, err := bank.LoadFile("testdata/geography.yaml")
	require.NoError(t, err)

	report, err := bank.Import(ctx, svc, b, l)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, &bank.Report{}, report)
}
