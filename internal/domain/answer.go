package domain

import (
	"slices"

	"github.com/google/uuid"
)

// AnswerKey is the natural key of an answer: the same literal content may be
// recorded only once per question and correctness flag.
type AnswerKey struct {
	QuestionUID uuid.UUID
	Answer      []string
	ExtraAnswer []string
	IsCorrect   bool
}

// Validate checks that the key references a question and carries a non-empty
// answer made of non-empty values. Extra values, when present, pair one to one
// with the values.
func (k AnswerKey) Validate() error {
	if k.QuestionUID == uuid.Nil {
		return ErrEmptyQuestionUID
	}

	if len(k.Answer) == 0 {
		return ErrEmptyAnswer
	}

	if slices.Contains(k.Answer, "") || slices.Contains(k.ExtraAnswer, "") {
		return ErrEmptyAnswer
	}

	if len(k.ExtraAnswer) != 0 && len(k.ExtraAnswer) != len(k.Answer) {
		return ErrUnpairedExtraAnswer
	}

	return nil
}

// Equal compares two keys. Answer sequences are compared in order.
func (k AnswerKey) Equal(other AnswerKey) bool {
	return k.QuestionUID == other.QuestionUID &&
		k.IsCorrect == other.IsCorrect &&
		slices.Equal(k.Answer, other.Answer) &&
		slices.Equal(k.ExtraAnswer, other.ExtraAnswer)
}

// Answer is an answer recorded by a user for a question. IsCorrect is set by
// whoever submits the answer; it is never derived here.
type Answer struct {
	UID         uuid.UUID `json:"uid"`
	Creator     uuid.UUID `json:"creator"`
	QuestionUID uuid.UUID `json:"question_uid"`
	Answer      []string  `json:"answer"`
	ExtraAnswer []string  `json:"extra_answer"`
	IsCorrect   bool      `json:"is_correct"`
}

// NewAnswer creates a new Answer with a freshly generated uid.
func NewAnswer(creator uuid.UUID, key AnswerKey) (*Answer, error) {
	return RestoreAnswer(uuid.New(), creator, key)
}

// RestoreAnswer rebuilds a stored answer.
func RestoreAnswer(uid, creator uuid.UUID, key AnswerKey) (*Answer, error) {
	answer := &Answer{
		UID:         uid,
		Creator:     creator,
		QuestionUID: key.QuestionUID,
		Answer:      cloneStrings(key.Answer),
		ExtraAnswer: cloneStrings(key.ExtraAnswer),
		IsCorrect:   key.IsCorrect,
	}

	if err := answer.Validate(); err != nil {
		return nil, err
	}

	return answer, nil
}

// Validate checks if the Answer has valid data.
func (a *Answer) Validate() error {
	if a.UID == uuid.Nil {
		return ErrEmptyAnswerID
	}

	if a.Creator == uuid.Nil {
		return ErrEmptyCreator
	}

	return a.Key().Validate()
}

// Key returns the natural key of the answer.
func (a *Answer) Key() AnswerKey {
	return AnswerKey{
		QuestionUID: a.QuestionUID,
		Answer:      cloneStrings(a.Answer),
		ExtraAnswer: cloneStrings(a.ExtraAnswer),
		IsCorrect:   a.IsCorrect,
	}
}

// Clone returns a deep copy of the answer.
func (a *Answer) Clone() *Answer {
	c := *a
	c.Answer = cloneStrings(a.Answer)
	c.ExtraAnswer = cloneStrings(a.ExtraAnswer)
	return &c
}
