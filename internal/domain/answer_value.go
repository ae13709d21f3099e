package domain

import (
	"fmt"
	"maps"
	"slices"
)

// AnswerValue is a typed answer: one of OneAnswer, ManyAnswer, OrderAnswer or
// MatchAnswer. Its structural kind is the question type it answers.
type AnswerValue interface {
	// Type returns the question type this value can answer.
	Type() QuestionType
	// Validate checks the structural rules of the value on its own.
	Validate() error
	// Columns flattens the value into the stored answer and extra answer
	// sequences.
	Columns() (answer, extraAnswer []string)
}

// OneAnswer picks a single value.
type OneAnswer struct {
	Value string
}

// NewOneAnswer creates a validated OneAnswer.
func NewOneAnswer(value string) (OneAnswer, error) {
	a := OneAnswer{Value: value}
	if err := a.Validate(); err != nil {
		return OneAnswer{}, err
	}
	return a, nil
}

// Type implements AnswerValue.
func (OneAnswer) Type() QuestionType { return QuestionTypeOne }

// Validate implements AnswerValue.
func (a OneAnswer) Validate() error {
	if a.Value == "" {
		return ErrEmptyAnswer
	}
	return nil
}

// Columns implements AnswerValue.
func (a OneAnswer) Columns() ([]string, []string) {
	return []string{a.Value}, []string{}
}

// ManyAnswer picks a set of one or more distinct values.
type ManyAnswer struct {
	Values []string
}

// NewManyAnswer creates a validated ManyAnswer. Values are treated as a set:
// duplicates collapse and the result is sorted.
func NewManyAnswer(values ...string) (ManyAnswer, error) {
	a := ManyAnswer{Values: normalizeSet(values)}
	if err := a.Validate(); err != nil {
		return ManyAnswer{}, err
	}
	return a, nil
}

// Type implements AnswerValue.
func (ManyAnswer) Type() QuestionType { return QuestionTypeMany }

// Validate implements AnswerValue.
func (a ManyAnswer) Validate() error {
	if len(a.Values) < 1 {
		return ErrManyAnswerTooShort
	}
	if slices.Contains(a.Values, "") {
		return ErrEmptyAnswer
	}
	if hasDuplicates(a.Values) {
		return ErrDuplicateAnswerValue
	}
	return nil
}

// Columns implements AnswerValue. The set is stored sorted so that the same
// selection always produces the same natural key.
func (a ManyAnswer) Columns() ([]string, []string) {
	return normalizeSet(a.Values), []string{}
}

// OrderAnswer is an ordering of two or more distinct values.
type OrderAnswer struct {
	Values []string
}

// NewOrderAnswer creates a validated OrderAnswer.
func NewOrderAnswer(values ...string) (OrderAnswer, error) {
	a := OrderAnswer{Values: cloneStrings(values)}
	if err := a.Validate(); err != nil {
		return OrderAnswer{}, err
	}
	return a, nil
}

// Type implements AnswerValue.
func (OrderAnswer) Type() QuestionType { return QuestionTypeOrder }

// Validate implements AnswerValue.
func (a OrderAnswer) Validate() error {
	if slices.Contains(a.Values, "") {
		return ErrEmptyAnswer
	}
	if len(a.Values) < 2 {
		return ErrOrderAnswerTooShort
	}
	if hasDuplicates(a.Values) {
		return ErrDuplicateAnswerValue
	}
	return nil
}

// Columns implements AnswerValue.
func (a OrderAnswer) Columns() ([]string, []string) {
	return cloneStrings(a.Values), []string{}
}

// MatchAnswer maps two or more keys to values.
type MatchAnswer struct {
	Pairs map[string]string
}

// NewMatchAnswer creates a validated MatchAnswer.
func NewMatchAnswer(pairs map[string]string) (MatchAnswer, error) {
	a := MatchAnswer{Pairs: maps.Clone(pairs)}
	if err := a.Validate(); err != nil {
		return MatchAnswer{}, err
	}
	return a, nil
}

// Type implements AnswerValue.
func (MatchAnswer) Type() QuestionType { return QuestionTypeMatch }

// Validate implements AnswerValue.
func (a MatchAnswer) Validate() error {
	for k, v := range a.Pairs {
		if k == "" || v == "" {
			return ErrEmptyAnswer
		}
	}
	if len(a.Pairs) < 2 {
		return ErrMatchAnswerTooShort
	}
	return nil
}

// Columns implements AnswerValue. Keys are sorted and the extra answer holds
// the value of each key at the same position.
func (a MatchAnswer) Columns() ([]string, []string) {
	keys := slices.Sorted(maps.Keys(a.Pairs))
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, a.Pairs[k])
	}
	return keys, values
}

// ParseAnswerValue rebuilds a typed value from stored answer columns for a
// question of the given type. Columns that cannot form a value of that type
// fail with ErrWrongAnswerType; structurally invalid values fail validation.
func ParseAnswerValue(questionType QuestionType, answer, extraAnswer []string) (AnswerValue, error) {
	var value AnswerValue

	switch questionType {
	case QuestionTypeOne:
		if len(answer) != 1 || len(extraAnswer) != 0 {
			return nil, fmt.Errorf("%w: one answer needs exactly one value", ErrWrongAnswerType)
		}
		value = OneAnswer{Value: answer[0]}
	case QuestionTypeMany:
		if len(extraAnswer) != 0 {
			return nil, fmt.Errorf("%w: many answer cannot have extra values", ErrWrongAnswerType)
		}
		value = ManyAnswer{Values: cloneStrings(answer)}
	case QuestionTypeOrder:
		if len(extraAnswer) != 0 {
			return nil, fmt.Errorf("%w: order answer cannot have extra values", ErrWrongAnswerType)
		}
		value = OrderAnswer{Values: cloneStrings(answer)}
	case QuestionTypeMatch:
		if len(answer) != len(extraAnswer) {
			return nil, fmt.Errorf("%w: match answer needs one extra value per value", ErrWrongAnswerType)
		}
		pairs := make(map[string]string, len(answer))
		for i, k := range answer {
			if _, ok := pairs[k]; ok {
				return nil, ErrDuplicateAnswerValue
			}
			pairs[k] = extraAnswer[i]
		}
		value = MatchAnswer{Pairs: pairs}
	default:
		return nil, ErrInvalidQuestionType
	}

	if err := value.Validate(); err != nil {
		return nil, err
	}

	return value, nil
}

func hasDuplicates(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}
