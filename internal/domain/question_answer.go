package domain

import (
	"fmt"
	"maps"
	"slices"
)

// QuestionWithAnswer pairs a question with an answer value that is known to fit
// it.
type QuestionWithAnswer struct {
	Question *Question
	Answer   AnswerValue
}

// NewQuestionWithAnswer validates answer against question and returns the
// pair. The error is a validation error for a malformed value, ErrWrongAnswerType
// when the value kind differs from the question type, and
// ErrInconsistentAnswerOptions when the values do not fit the options.
func NewQuestionWithAnswer(question *Question, answer AnswerValue) (*QuestionWithAnswer, error) {
	if err := ValidateAnswer(question, answer); err != nil {
		return nil, err
	}

	return &QuestionWithAnswer{
		Question: question,
		Answer:   answer,
	}, nil
}

// Key returns the natural key under which the answer is stored.
func (qa *QuestionWithAnswer) Key(isCorrect bool) AnswerKey {
	answer, extra := qa.Answer.Columns()
	return AnswerKey{
		QuestionUID: qa.Question.UID,
		Answer:      answer,
		ExtraAnswer: extra,
		IsCorrect:   isCorrect,
	}
}

// ValidateAnswer checks that answer has the shape question declares: the
// structural kind first, then, for questions with options, the membership of
// the values.
func ValidateAnswer(question *Question, answer AnswerValue) error {
	if question == nil {
		return ErrEmptyQuestionUID
	}

	if answer == nil {
		return ErrEmptyAnswer
	}

	if answer.Type() != question.Type {
		return fmt.Errorf("%w: %s question got %s answer", ErrWrongAnswerType, question.Type, answer.Type())
	}

	if err := answer.Validate(); err != nil {
		return err
	}

	if !question.HasOptions() {
		return nil
	}

	switch a := answer.(type) {
	case OneAnswer:
		if !slices.Contains(question.Options, a.Value) {
			return fmt.Errorf("%w: %q is not an option", ErrInconsistentAnswerOptions, a.Value)
		}
	case ManyAnswer:
		for _, v := range a.Values {
			if !slices.Contains(question.Options, v) {
				return fmt.Errorf("%w: %q is not an option", ErrInconsistentAnswerOptions, v)
			}
		}
	case OrderAnswer:
		if !sameSet(a.Values, question.Options) {
			return fmt.Errorf("%w: ordered values must be exactly the options", ErrInconsistentAnswerOptions)
		}
	case MatchAnswer:
		keys := slices.Collect(maps.Keys(a.Pairs))
		values := slices.Collect(maps.Values(a.Pairs))
		if len(keys) != len(question.Options) || !sameSet(keys, question.Options) {
			return fmt.Errorf("%w: matched keys must be exactly the options", ErrInconsistentAnswerOptions)
		}
		if !sameSet(values, question.ExtraOptions) {
			return fmt.Errorf("%w: matched values must be exactly the extra options", ErrInconsistentAnswerOptions)
		}
	default:
		return fmt.Errorf("%w: unsupported answer value %T", ErrWrongAnswerType, answer)
	}

	return nil
}
