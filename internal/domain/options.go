package domain

import (
	"fmt"
	"slices"
)

// optionRule describes which option shapes a question type accepts.
type optionRule struct {
	allowExtra bool
	// minOptions applies only when options are given; empty options mean a
	// free-form question.
	minOptions int
	// pairedExtra requires extra options to be present exactly when options
	// are, with the same number of members.
	pairedExtra bool
}

var optionRules = map[QuestionType]optionRule{
	QuestionTypeOne:   {minOptions: 2},
	QuestionTypeMany:  {minOptions: 2},
	QuestionTypeOrder: {minOptions: 2},
	QuestionTypeMatch: {allowExtra: true, minOptions: 2, pairedExtra: true},
}

// Options is the pair of option sets a question declares. Both sets are kept
// sorted and free of duplicates so that equal sets compare equal.
type Options struct {
	Options      []string `json:"options"`
	ExtraOptions []string `json:"extra_options"`
}

// NewOptions builds an Options value from possibly unsorted, possibly
// duplicated members. Empty members are rejected.
func NewOptions(options, extraOptions []string) (Options, error) {
	o := Options{
		Options:      normalizeSet(options),
		ExtraOptions: normalizeSet(extraOptions),
	}

	if err := o.Validate(); err != nil {
		return Options{}, err
	}

	return o, nil
}

// Validate checks that no member of either set is empty.
func (o Options) Validate() error {
	if slices.Contains(o.Options, "") || slices.Contains(o.ExtraOptions, "") {
		return ErrEmptyOption
	}
	return nil
}

// IsEmpty reports whether the question is free-form.
func (o Options) IsEmpty() bool {
	return len(o.Options) == 0 && len(o.ExtraOptions) == 0
}

// Equal compares both sets member-wise.
func (o Options) Equal(other Options) bool {
	return slices.Equal(o.Options, other.Options) && slices.Equal(o.ExtraOptions, other.ExtraOptions)
}

// checkFor verifies the option shape against the rule of the question type.
func (o Options) checkFor(questionType QuestionType) error {
	rule, ok := optionRules[questionType]
	if !ok {
		return ErrInvalidQuestionType
	}

	n, m := len(o.Options), len(o.ExtraOptions)

	if !rule.allowExtra && m > 0 {
		return fmt.Errorf("%w: %s question cannot have extra options", ErrInconsistentOptions, questionType)
	}

	if n > 0 && n < rule.minOptions {
		return fmt.Errorf("%w: %s question needs at least %d options, got %d",
			ErrInconsistentOptions, questionType, rule.minOptions, n)
	}

	if rule.pairedExtra {
		if (n == 0) != (m == 0) {
			return fmt.Errorf("%w: %s question needs options and extra options together",
				ErrInconsistentOptions, questionType)
		}
		if n != m {
			return fmt.Errorf("%w: %s question has %d options but %d extra options",
				ErrInconsistentOptions, questionType, n, m)
		}
	}

	return nil
}

// normalizeSet returns a sorted copy of values without duplicates. The result
// is never nil.
func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	out = append(out, values...)
	slices.Sort(out)
	return slices.Compact(out)
}

// cloneStrings returns a non-nil copy of values.
func cloneStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// sameSet reports whether a and b hold the same members, ignoring order and
// duplicates.
func sameSet(a, b []string) bool {
	return slices.Equal(normalizeSet(a), normalizeSet(b))
}
