package migrate

import (
	"context"
	"testing"

	"github.com/kittens-answers/answers-core/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	for _, name := range []string{"up", "down", "reset", "status", "version"} {
		command, err := ParseCommand(name)
		require.NoError(t, err, name)
		assert.Equal(t, Command(name), command)
	}

	_, err := ParseCommand("create")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRunRejectsUnknownDialect(t *testing.T) {
	l, buf := logger.GetTestLogger(t)

	err := Run(context.Background(), nil, Source{Dialect: "oracle-of-delphi"}, Up, l)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set dialect")
	logger.AssertLogContains(t, buf, "failed to set dialect")
}

func TestSlogGooseLogger(t *testing.T) {
	l, buf := logger.GetTestLogger(t)
	gl := &slogGooseLogger{logger: l}

	gl.Printf("applied %d migrations", 3)
	gl.Fatalf("broken %s", "migration")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "applied 3 migrations", entries[0]["msg"])
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "broken migration", entries[1]["msg"])
	assert.Equal(t, "ERROR", entries[1]["level"])
}
