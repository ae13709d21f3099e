package domain

import (
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxQuestionTextLength is the maximum length of a question text, in characters.
const MaxQuestionTextLength = 500

// QuestionKey is the natural key of a question. Two questions with equal keys
// are duplicates regardless of their uids.
type QuestionKey struct {
	Type         QuestionType
	Text         string
	Options      []string
	ExtraOptions []string
}

// Validate checks the key and the consistency of its options with its type.
func (k QuestionKey) Validate() error {
	if !k.Type.IsValid() {
		return ErrInvalidQuestionType
	}

	if k.Text == "" {
		return ErrEmptyQuestionText
	}

	if utf8.RuneCountInString(k.Text) > MaxQuestionTextLength {
		return ErrQuestionTextTooLong
	}

	opts := k.options()
	if err := opts.Validate(); err != nil {
		return err
	}

	return opts.checkFor(k.Type)
}

// Normalize returns a copy of the key with sorted, de-duplicated option sets.
func (k QuestionKey) Normalize() QuestionKey {
	opts := k.options()
	return QuestionKey{
		Type:         k.Type,
		Text:         k.Text,
		Options:      opts.Options,
		ExtraOptions: opts.ExtraOptions,
	}
}

// Equal compares two keys with set semantics for the options.
func (k QuestionKey) Equal(other QuestionKey) bool {
	return k.Type == other.Type &&
		k.Text == other.Text &&
		k.options().Equal(other.options())
}

func (k QuestionKey) options() Options {
	return Options{
		Options:      normalizeSet(k.Options),
		ExtraOptions: normalizeSet(k.ExtraOptions),
	}
}

// Question is a question created by a user. Options and ExtraOptions are sets,
// kept sorted.
type Question struct {
	UID          uuid.UUID    `json:"uid"`
	Creator      uuid.UUID    `json:"creator"`
	Type         QuestionType `json:"question_type"`
	Text         string       `json:"text"`
	Options      []string     `json:"options"`
	ExtraOptions []string     `json:"extra_options"`
}

// NewQuestion creates a new Question with a freshly generated uid.
// Construction fails as a whole if the key is invalid or its options do not
// fit its type.
func NewQuestion(creator uuid.UUID, key QuestionKey) (*Question, error) {
	key = key.Normalize()

	question := &Question{
		UID:          uuid.New(),
		Creator:      creator,
		Type:         key.Type,
		Text:         key.Text,
		Options:      key.Options,
		ExtraOptions: key.ExtraOptions,
	}

	if err := question.Validate(); err != nil {
		return nil, err
	}

	return question, nil
}

// RestoreQuestion rebuilds a stored question, normalising its option sets.
func RestoreQuestion(uid, creator uuid.UUID, key QuestionKey) (*Question, error) {
	key = key.Normalize()

	question := &Question{
		UID:          uid,
		Creator:      creator,
		Type:         key.Type,
		Text:         key.Text,
		Options:      key.Options,
		ExtraOptions: key.ExtraOptions,
	}

	if err := question.Validate(); err != nil {
		return nil, err
	}

	return question, nil
}

// Validate checks if the Question has valid data.
func (q *Question) Validate() error {
	if q.UID == uuid.Nil {
		return ErrEmptyQuestionID
	}

	if q.Creator == uuid.Nil {
		return ErrEmptyCreator
	}

	return q.Key().Validate()
}

// Key returns the natural key of the question.
func (q *Question) Key() QuestionKey {
	return QuestionKey{
		Type:         q.Type,
		Text:         q.Text,
		Options:      cloneStrings(q.Options),
		ExtraOptions: cloneStrings(q.ExtraOptions),
	}
}

// HasOptions reports whether the question declares options. Free-form
// questions accept any values of the right shape.
func (q *Question) HasOptions() bool {
	return len(q.Options) > 0
}

// Clone returns a deep copy of the question.
func (q *Question) Clone() *Question {
	c := *q
	c.Options = cloneStrings(q.Options)
	c.ExtraOptions = cloneStrings(q.ExtraOptions)
	return &c
}
