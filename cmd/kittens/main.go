// Package main implements the kittens command, which manages the answers
// store: schema migrations, question bank imports and answer lookups.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/bank"
	"github.com/kittens-answers/answers-core/internal/config"
	"github.com/kittens-answers/answers-core/internal/domain"
	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/kittens-answers/answers-core/internal/platform/migrate"
	"github.com/kittens-answers/answers-core/internal/redact"
	"github.com/kittens-answers/answers-core/internal/service"
)

// errUsage is returned when the command line cannot be understood.
var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "kittens: %s\n", redact.Error(err))
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run executes the command line args and writes results to stdout.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("kittens", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(fs)
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	ctx = logger.WithLogger(ctx, log)

	log.Debug("configuration loaded",
		slog.String("driver", cfg.Database.Driver),
		slog.Bool("url_present", cfg.Database.URL != ""),
		slog.String("log_level", cfg.Log.Level))

	b, err := openBackend(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.Database.Driver, err)
	}
	defer func() {
		if closeErr := b.Close(); closeErr != nil {
			log.Error("failed to close database", slog.String("error", closeErr.Error()))
		}
	}()

	switch rest[0] {
	case "migrate":
		return runMigrate(ctx, b, rest[1:], log)
	case "import":
		return runImport(ctx, b, rest[1:], stdout, log)
	case "get":
		return runGet(ctx, b, rest[1:], stdout, log)
	default:
		printUsage(fs)
		return fmt.Errorf("%w: unknown command %q", errUsage, rest[0])
	}
}

func runMigrate(ctx context.Context, b *backend, args []string, log *slog.Logger) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: migrate needs one of up, down, reset, status, version", errUsage)
	}

	command, err := migrate.ParseCommand(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	return b.migrate(ctx, command, log)
}

func runImport(ctx context.Context, b *backend, args []string, stdout io.Writer, log *slog.Logger) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: import needs a bank file", errUsage)
	}

	qb, err := bank.LoadFile(args[0])
	if err != nil {
		return err
	}

	svc := service.NewAnswerService(b.newUnitOfWork, log)
	report, err := bank.Import(ctx, svc, qb, log)
	if err != nil {
		return err
	}

	return writeJSON(stdout, report)
}

// answerView is the JSON shape printed by the get command.
type answerView struct {
	Answer   *domain.Answer   `json:"answer"`
	Question *domain.Question `json:"question"`
}

func runGet(ctx context.Context, b *backend, args []string, stdout io.Writer, log *slog.Logger) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: get needs an answer uid", errUsage)
	}

	uid, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	svc := service.NewAnswerService(b.newUnitOfWork, log)
	details, err := svc.GetAnswer(ctx, uid)
	if err != nil {
		return err
	}

	return writeJSON(stdout, answerView{
		Answer:   details.Answer,
		Question: details.Question,
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "Usage: kittens <command> [arguments]")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  migrate up|down|reset|status|version  manage the relational schema")
	fmt.Fprintln(out, "  import <file>                          import a YAML question bank")
	fmt.Fprintln(out, "  get <answer-uid>                       print an answer with its question")
	fmt.Fprintln(out, "Configuration comes from KITTENS_* variables, .env and config.yaml.")
	fs.PrintDefaults()
}
