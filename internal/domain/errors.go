package domain

import (
	"errors"
	"fmt"
)

// Root error kinds. Every specific error below wraps one of them, so callers
// can branch with errors.Is on the kind alone.
var (
	// ErrValidation is returned when an entity violates a structural invariant
	// at construction time.
	ErrValidation = errors.New("validation failed")

	// ErrAnswerShapeMismatch is returned when an answer value does not fit the
	// question it is checked against.
	ErrAnswerShapeMismatch = errors.New("answer does not fit question")
)

// Answer shape mismatch kinds.
var (
	// ErrWrongAnswerType means the structural kind of the answer differs from
	// the question type.
	ErrWrongAnswerType = fmt.Errorf("%w: answer is inconsistent with question type", ErrAnswerShapeMismatch)

	// ErrInconsistentAnswerOptions means the answer kind is right but its values
	// are not a valid assignment over the question options.
	ErrInconsistentAnswerOptions = fmt.Errorf(
		"%w: answer is inconsistent with question options",
		ErrAnswerShapeMismatch,
	)
)

// User validation errors.
var (
	ErrEmptyUserID      = fmt.Errorf("%w: user uid cannot be empty", ErrValidation)
	ErrEmptyForeignID   = fmt.Errorf("%w: foreign id cannot be empty", ErrValidation)
	ErrForeignIDTooLong = fmt.Errorf("%w: foreign id is too long", ErrValidation)
)

// Question validation errors.
var (
	ErrEmptyQuestionID     = fmt.Errorf("%w: question uid cannot be empty", ErrValidation)
	ErrEmptyCreator        = fmt.Errorf("%w: creator cannot be empty", ErrValidation)
	ErrInvalidQuestionType = fmt.Errorf("%w: invalid question type", ErrValidation)
	ErrEmptyQuestionText   = fmt.Errorf("%w: text cannot be empty", ErrValidation)
	ErrQuestionTextTooLong = fmt.Errorf("%w: text is too long", ErrValidation)
	ErrEmptyOption         = fmt.Errorf("%w: options or extra options cannot be empty", ErrValidation)
	ErrInconsistentOptions = fmt.Errorf("%w: options is inconsistent with question type", ErrValidation)
)

// Answer validation errors.
var (
	ErrEmptyAnswerID        = fmt.Errorf("%w: answer uid cannot be empty", ErrValidation)
	ErrEmptyQuestionUID     = fmt.Errorf("%w: question uid cannot be empty", ErrValidation)
	ErrEmptyAnswer          = fmt.Errorf("%w: answer cannot be empty", ErrValidation)
	ErrManyAnswerTooShort   = fmt.Errorf("%w: many answer must be one or more long", ErrValidation)
	ErrOrderAnswerTooShort  = fmt.Errorf("%w: order answer must be two or more long", ErrValidation)
	ErrMatchAnswerTooShort  = fmt.Errorf("%w: match answer must be two or more long", ErrValidation)
	ErrDuplicateAnswerValue = fmt.Errorf("%w: answer values must be distinct", ErrValidation)
	ErrUnpairedExtraAnswer  = fmt.Errorf("%w: extra answer must pair with every value", ErrValidation)
)

// IsValidationError reports whether err is a structural validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsAnswerShapeMismatch reports whether err classifies an answer that does not
// fit its question, regardless of the sub-kind.
func IsAnswerShapeMismatch(err error) bool {
	return errors.Is(err, ErrAnswerShapeMismatch)
}
