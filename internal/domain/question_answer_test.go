package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustQuestion(t *testing.T, qt QuestionType, options, extraOptions []string) *Question {
	t.Helper()
	q, err := NewQuestion(uuid.New(), QuestionKey{
		Type:         qt,
		Text:         "?",
		Options:      options,
		ExtraOptions: extraOptions,
	})
	require.NoError(t, err)
	return q
}

func TestValidateAnswerAccepts(t *testing.T) {
	tests := []struct {
		name     string
		question *Question
		answer   AnswerValue
	}{
		{"one free", mustQuestion(t, QuestionTypeOne, nil, nil), OneAnswer{Value: "1"}},
		{"one option", mustQuestion(t, QuestionTypeOne, []string{"1", "2"}, nil), OneAnswer{Value: "1"}},
		{"many free", mustQuestion(t, QuestionTypeMany, nil, nil), ManyAnswer{Values: []string{"1"}}},
		{"many option", mustQuestion(t, QuestionTypeMany, []string{"1", "2"}, nil), ManyAnswer{Values: []string{"1"}}},
		{"order free", mustQuestion(t, QuestionTypeOrder, nil, nil), OrderAnswer{Values: []string{"1", "2"}}},
		{
			"order reversed",
			mustQuestion(t, QuestionTypeOrder, []string{"1", "2"}, nil),
			OrderAnswer{Values: []string{"2", "1"}},
		},
		{
			"match free",
			mustQuestion(t, QuestionTypeMatch, nil, nil),
			MatchAnswer{Pairs: map[string]string{"1": "b", "2": "a"}},
		},
		{
			"match options",
			mustQuestion(t, QuestionTypeMatch, []string{"1", "2"}, []string{"a", "b"}),
			MatchAnswer{Pairs: map[string]string{"1": "a", "2": "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qa, err := NewQuestionWithAnswer(tt.question, tt.answer)
			require.NoError(t, err)
			assert.Same(t, tt.question, qa.Question)
		})
	}
}

func TestValidateAnswerWrongType(t *testing.T) {
	tests := []struct {
		name   string
		qt     QuestionType
		answer AnswerValue
	}{
		{"one gets many", QuestionTypeOne, ManyAnswer{Values: []string{"1", "2"}}},
		{"many gets one", QuestionTypeMany, OneAnswer{Value: "1"}},
		{"order gets one", QuestionTypeOrder, OneAnswer{Value: "1"}},
		{"match gets one", QuestionTypeMatch, OneAnswer{Value: "1"}},
		{"match gets order", QuestionTypeMatch, OrderAnswer{Values: []string{"1", "2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuestionWithAnswer(mustQuestion(t, tt.qt, nil, nil), tt.answer)
			assert.ErrorIs(t, err, ErrWrongAnswerType)
			assert.NotErrorIs(t, err, ErrInconsistentAnswerOptions)
			assert.True(t, IsAnswerShapeMismatch(err))
		})
	}
}

func TestValidateAnswerInconsistentOptions(t *testing.T) {
	matchQuestion := mustQuestion(t, QuestionTypeMatch, []string{"1", "2"}, []string{"a", "b"})

	tests := []struct {
		name     string
		question *Question
		answer   AnswerValue
	}{
		{"one not an option", mustQuestion(t, QuestionTypeOne, []string{"1", "2"}, nil), OneAnswer{Value: "3"}},
		{"many not an option", mustQuestion(t, QuestionTypeMany, []string{"1", "2"}, nil), ManyAnswer{Values: []string{"3"}}},
		{
			"order foreign value",
			mustQuestion(t, QuestionTypeOrder, []string{"1", "2"}, nil),
			OrderAnswer{Values: []string{"1", "3"}},
		},
		{
			"order missing value",
			mustQuestion(t, QuestionTypeOrder, []string{"1", "2", "3"}, nil),
			OrderAnswer{Values: []string{"1", "2"}},
		},
		{"match repeated value", matchQuestion, MatchAnswer{Pairs: map[string]string{"1": "b", "2": "b"}}},
		{"match foreign value", matchQuestion, MatchAnswer{Pairs: map[string]string{"1": "b", "2": "c"}}},
		{"match extra key", matchQuestion, MatchAnswer{Pairs: map[string]string{"1": "b", "2": "a", "3": "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuestionWithAnswer(tt.question, tt.answer)
			assert.ErrorIs(t, err, ErrInconsistentAnswerOptions)
			assert.NotErrorIs(t, err, ErrWrongAnswerType)
		})
	}
}

func TestValidateAnswerMalformedValue(t *testing.T) {
	q := mustQuestion(t, QuestionTypeOrder, nil, nil)

	err := ValidateAnswer(q, OrderAnswer{Values: []string{"1"}})
	assert.ErrorIs(t, err, ErrOrderAnswerTooShort)
	assert.False(t, IsAnswerShapeMismatch(err))

	assert.ErrorIs(t, ValidateAnswer(q, nil), ErrEmptyAnswer)
}

func TestValidateAnswerWithoutQuestion(t *testing.T) {
	assert.ErrorIs(t, ValidateAnswer(nil, OneAnswer{Value: "x"}), ErrEmptyQuestionUID)

	_, err := NewQuestionWithAnswer(nil, OneAnswer{Value: "x"})
	assert.ErrorIs(t, err, ErrEmptyQuestionUID)
}

func TestQuestionWithAnswerKey(t *testing.T) {
	q := mustQuestion(t, QuestionTypeMatch, []string{"1", "2"}, []string{"a", "b"})
	qa, err := NewQuestionWithAnswer(q, MatchAnswer{Pairs: map[string]string{"2": "a", "1": "b"}})
	require.NoError(t, err)

	key := qa.Key(true)
	assert.Equal(t, q.UID, key.QuestionUID)
	assert.Equal(t, []string{"1", "2"}, key.Answer)
	assert.Equal(t, []string{"b", "a"}, key.ExtraAnswer)
	assert.True(t, key.IsCorrect)
	assert.NoError(t, key.Validate())
}
