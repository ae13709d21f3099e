package domain

// QuestionType declares the shape of the answers a question accepts.
type QuestionType string

// Possible question types
const (
	// QuestionTypeOne accepts a single option.
	QuestionTypeOne QuestionType = "ONE"
	// QuestionTypeMany accepts one or more distinct options.
	QuestionTypeMany QuestionType = "MANY"
	// QuestionTypeOrder accepts an ordering of two or more options.
	QuestionTypeOrder QuestionType = "ORDER"
	// QuestionTypeMatch accepts a mapping from options to extra options.
	QuestionTypeMatch QuestionType = "MATCH"
)

// QuestionTypes lists every valid question type.
var QuestionTypes = []QuestionType{
	QuestionTypeOne,
	QuestionTypeMany,
	QuestionTypeOrder,
	QuestionTypeMatch,
}

// IsValid reports whether t is one of the known question types.
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeOne, QuestionTypeMany, QuestionTypeOrder, QuestionTypeMatch:
		return true
	default:
		return false
	}
}

func (t QuestionType) String() string {
	return string(t)
}

// ParseQuestionType converts s into a QuestionType.
func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(s)
	if !t.IsValid() {
		return "", ErrInvalidQuestionType
	}
	return t, nil
}
