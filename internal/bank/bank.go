package bank

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/service"
	"gopkg.in/yaml.v3"
)

// ErrInvalidBank is returned when a bank file cannot be turned into answer
// requests. The wrapped error tells which entry failed.
var ErrInvalidBank = errors.New("invalid question bank")

// BankYAML represents the YAML file structure
type BankYAML struct {
	Version   string         `yaml:"version"`
	Creator   string         `yaml:"creator"`
	Questions []QuestionYAML `yaml:"questions"`
}

// QuestionYAML represents a question with its answers
type QuestionYAML struct {
	Type         string       `yaml:"type"`
	Text         string       `yaml:"text"`
	Options      []string     `yaml:"options,omitempty"`
	ExtraOptions []string     `yaml:"extra_options,omitempty"`
	Answers      []AnswerYAML `yaml:"answers,omitempty"`
}

// AnswerYAML represents one answer to a question
type AnswerYAML struct {
	Creator string            `yaml:"creator,omitempty"`
	Correct bool              `yaml:"correct"`
	Values  []string          `yaml:"values,omitempty"`
	Pairs   map[string]string `yaml:"pairs,omitempty"`
}

// Entry is a question of a bank converted to domain values.
type Entry struct {
	Creator  string
	Question domain.QuestionKey
	Answers  []service.RecordAnswerRequest
}

// Bank is a parsed and converted question bank.
type Bank struct {
	Version string
	Entries []Entry
}

// LoadFile loads a bank from a YAML file
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Parse(data)
}

// Parse parses a bank from YAML bytes and converts every entry. Unknown
// fields are rejected.
func Parse(data []byte) (*Bank, error) {
	var raw BankYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrInvalidBank)
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return convert(&raw)
}

func convert(raw *BankYAML) (*Bank, error) {
	bank := &Bank{
		Version: raw.Version,
		Entries: make([]Entry, 0, len(raw.Questions)),
	}

	for i, q := range raw.Questions {
		entry, err := convertQuestion(raw.Creator, q)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %w", ErrInvalidBank, i+1, err)
		}
		bank.Entries = append(bank.Entries, entry)
	}

	return bank, nil
}

func convertQuestion(defaultCreator string, q QuestionYAML) (Entry, error) {
	questionType, err := domain.ParseQuestionType(q.Type)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %q", err, q.Type)
	}

	key := domain.QuestionKey{
		Type:         questionType,
		Text:         q.Text,
		Options:      q.Options,
		ExtraOptions: q.ExtraOptions,
	}

	// Answers are checked against a detached question so a bad entry fails
	// the whole file before anything is imported.
	question, err := domain.NewQuestion(uuid.New(), key)
	if err != nil {
		return Entry{}, err
	}

	if err := domain.ValidateForeignID(defaultCreator); err != nil {
		return Entry{}, fmt.Errorf("bank creator: %w", err)
	}

	entry := Entry{
		Creator:  defaultCreator,
		Question: question.Key(),
		Answers:  make([]service.RecordAnswerRequest, 0, len(q.Answers)),
	}

	for j, a := range q.Answers {
		req, err := convertAnswer(defaultCreator, question, a)
		if err != nil {
			return Entry{}, fmt.Errorf("answer %d: %w", j+1, err)
		}
		entry.Answers = append(entry.Answers, req)
	}

	return entry, nil
}

func convertAnswer(defaultCreator string, question *domain.Question, a AnswerYAML) (service.RecordAnswerRequest, error) {
	creator := a.Creator
	if creator == "" {
		creator = defaultCreator
	}
	if err := domain.ValidateForeignID(creator); err != nil {
		return service.RecordAnswerRequest{}, err
	}

	var (
		value domain.AnswerValue
		err   error
	)
	if question.Type == domain.QuestionTypeMatch {
		if len(a.Values) > 0 {
			return service.RecordAnswerRequest{}, fmt.Errorf("%w: match answers use pairs", domain.ErrWrongAnswerType)
		}
		value, err = domain.NewMatchAnswer(a.Pairs)
	} else {
		if len(a.Pairs) > 0 {
			return service.RecordAnswerRequest{}, fmt.Errorf("%w: only match answers use pairs", domain.ErrWrongAnswerType)
		}
		value, err = domain.ParseAnswerValue(question.Type, a.Values, nil)
	}
	if err != nil {
		return service.RecordAnswerRequest{}, err
	}

	if err := domain.ValidateAnswer(question, value); err != nil {
		return service.RecordAnswerRequest{}, err
	}

	return service.RecordAnswerRequest{
		CreatorForeignID: creator,
		Question:         question.Key(),
		Value:            value,
		IsCorrect:        a.Correct,
	}, nil
}
