package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/bank"
	"github.com/kittens-answers/answers-core/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bankFile = "../../internal/bank/testdata/geography.yaml"

func useDriver(t *testing.T, driver, url string) {
	t.Helper()
	t.Setenv("KITTENS_DATABASE_DRIVER", driver)
	t.Setenv("KITTENS_DATABASE_URL", url)
	t.Setenv("KITTENS_LOG_LEVEL", "error")
}

func TestRunUsage(t *testing.T) {
	useDriver(t, "memory", "")

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"serve"}},
		{name: "unknown flag", args: []string{"-port=80", "import"}},
		{name: "migrate without subcommand", args: []string{"migrate"}},
		{name: "unknown migrate subcommand", args: []string{"migrate", "sideways"}},
		{name: "import without file", args: []string{"import"}},
		{name: "get with malformed uid", args: []string{"get", "not-a-uid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), tt.args, &out)
			assert.ErrorIs(t, err, errUsage)
		})
	}
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-h"}, &out))
	assert.Contains(t, out.String(), "Usage: kittens")
}

func TestRunInvalidConfiguration(t *testing.T) {
	useDriver(t, "postgres", "")

	err := run(context.Background(), []string{"import", bankFile}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestMemoryBackend(t *testing.T) {
	useDriver(t, "memory", "")

	t.Run("import", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(context.Background(), []string{"import", bankFile}, &out))

		var report bank.Report
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		assert.Equal(t, bank.Report{Questions: 5, Created: 5}, report)
	})

	t.Run("migrate is refused", func(t *testing.T) {
		err := run(context.Background(), []string{"migrate", "up"}, &bytes.Buffer{})
		assert.ErrorIs(t, err, errNoMigrations)
	})
}

func TestSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	useDriver(t, "sqlite", filepath.Join(t.TempDir(), "kittens.db"))

	require.NoError(t, run(ctx, []string{"migrate", "up"}, &bytes.Buffer{}))
	require.NoError(t, run(ctx, []string{"migrate", "status"}, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"import", bankFile}, &out))
	var first bank.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &first))
	assert.Equal(t, bank.Report{Questions: 5, Created: 5}, first)

	out.Reset()
	require.NoError(t, run(ctx, []string{"import", bankFile}, &out))
	var second bank.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &second))
	assert.Equal(t, bank.Report{Questions: 5, Existing: 5}, second)

	err := run(ctx, []string{"get", uuid.NewString()}, &bytes.Buffer{})
	assert.ErrorIs(t, err, store.ErrAnswerNotFound)

	require.NoError(t, run(ctx, []string{"migrate", "reset"}, &bytes.Buffer{}))
	err = run(ctx, []string{"import", bankFile}, &bytes.Buffer{})
	assert.Error(t, err, "import needs the schema")
}
