package bank

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/service"
)

// Recorder is the part of the answer service an import needs.
type Recorder interface {
	EnsureQuestion(ctx context.Context, creatorForeignID string, key domain.QuestionKey) (*domain.Question, error)
	RecordAnswer(ctx context.Context, req service.RecordAnswerRequest) (*service.RecordedAnswer, error)
}

// Report counts what an import did.
type Report struct {
	Questions int `json:"questions"`
	Created   int `json:"created"`
	Existing  int `json:"existing"`
}

// Import records every question and answer of b through rec, each in its own
// scope. It stops at the first failure and returns the counts so far along
// with the error.
func Import(ctx context.Context, rec Recorder, b *Bank, log *slog.Logger) (*Report, error) {
	log = logger.Component(log, "bank_import")
	report := &Report{}

	for i, entry := range b.Entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if _, err := rec.EnsureQuestion(ctx, entry.Creator, entry.Question); err != nil {
			log.Error("failed to import question",
				slog.Int("question", i+1),
				slog.String("error", err.Error()))
			return report, fmt.Errorf("question %d: %w", i+1, err)
		}
		report.Questions++

		for j, req := range entry.Answers {
			res, err := rec.RecordAnswer(ctx, req)
			if err != nil {
				log.Error("failed to import answer",
					slog.Int("question", i+1),
					slog.Int("answer", j+1),
					slog.String("error", err.Error()))
				return report, fmt.Errorf("question %d answer %d: %w", i+1, j+1, err)
			}

			if res.Created {
				report.Created++
			} else {
				report.Existing++
			}
		}
	}

	log.Info("question bank imported",
		slog.String("version", b.Version),
		slog.Int("questions", report.Questions),
		slog.Int("created", report.Created),
		slog.Int("existing", report.Existing))

	return report, nil
}
