// Package migrate runs the embedded goose migrations of the relational
// backends.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
)

// TableName is the table goose records applied versions in.
const TableName = "schema_migrations"

// Command is a migration operation.
type Command string

// Supported migration commands.
const (
	Up      Command = "up"
	Down    Command = "down"
	Reset   Command = "reset"
	Status  Command = "status"
	Version Command = "version"
)

// ErrUnknownCommand is returned for a command Run does not support.
var ErrUnknownCommand = errors.New("unknown migration command")

// Source locates the migrations of one backend.
type Source struct {
	// Dialect is the goose dialect, such as "postgres" or "sqlite3".
	Dialect string
	// FS holds the migration files, usually an embed.FS.
	FS fs.FS
	// Dir is the directory inside FS that holds the migration files.
	Dir string
}

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// ParseCommand converts a command name into a Command.
func ParseCommand(name string) (Command, error) {
	switch c := Command(name); c {
	case Up, Down, Reset, Status, Version:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %s (expected up, down, reset, status or version)", ErrUnknownCommand, name)
	}
}

// Run executes command against db using the migrations in src.
func Run(ctx context.Context, db *sql.DB, src Source, command Command, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("dialect", src.Dialect),
		slog.String("command", string(command)),
	)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(src.FS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetTableName(TableName)

	if err := goose.SetDialect(src.Dialect); err != nil {
		log.Error("failed to set dialect", slog.String("error", err.Error()))
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	dir := src.Dir
	if dir == "" {
		dir = "."
	}

	startTime := time.Now()
	log.Info("starting migration operation")

	var err error
	switch command {
	case Up:
		err = goose.UpContext(ctx, db, dir)
	case Down:
		err = goose.DownContext(ctx, db, dir)
	case Reset:
		err = goose.ResetContext(ctx, db, dir)
	case Status:
		err = goose.StatusContext(ctx, db, dir)
	case Version:
		err = goose.VersionContext(ctx, db, dir)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}

	if err != nil {
		log.Error("migration operation failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration operation completed",
		slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))
	return nil
}

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error.
// It does not exit: the error is also returned by the goose call that logged it.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
