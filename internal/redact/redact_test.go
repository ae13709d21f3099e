package redact_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kittens-answers/answers-core/internal/redact"
	"github.com/stretchr/testify/assert"
)

func TestRedactString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no sensitive data",
			input:    "failed to ping database: connection refused",
			expected: "failed to ping database: connection refused",
		},
		{
			name:     "connection url",
			input:    "cannot connect to postgres://kittens:s3cret@db:5432/answers",
			expected: "cannot connect to postgres://[REDACTED_CREDENTIAL]@db:5432/answers",
		},
		{
			name:     "postgresql scheme without password",
			input:    "postgresql://kittens@db/answers",
			expected: "postgresql://[REDACTED_CREDENTIAL]@db/answers",
		},
		{
			name:     "key value dsn",
			input:    "host=db user=kittens password=s3cret dbname=answers",
			expected: "host=db user=kittens password=[REDACTED_CREDENTIAL] dbname=answers",
		},
		{
			name:     "quoted dsn password",
			input:    "host=db password='with space' sslmode=disable",
			expected: "host=db password=[REDACTED_CREDENTIAL] sslmode=disable",
		},
		{
			name:     "query string password",
			input:    "postgres://db/answers?sslpassword=abc&sslmode=verify-full",
			expected: "postgres://db/answers?sslpassword=[REDACTED_CREDENTIAL]&sslmode=verify-full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, redact.String(tt.input))
		})
	}
}

func TestRedactError(t *testing.T) {
	assert.Equal(t, "", redact.Error(nil))

	err := fmt.Errorf("failed to open database: %w",
		errors.New("dial postgres://kittens:s3cret@db:5432/answers: timeout"))
	assert.Equal(t,
		"failed to open database: dial postgres://[REDACTED_CREDENTIAL]@db:5432/answers: timeout",
		redact.Error(err))
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "password",
			input:    "postgres://kittens:s3cret@db:5432/answers?sslmode=disable",
			expected: "postgres://kittens:xxxxx@db:5432/answers?sslmode=disable",
		},
		{
			name:     "password in query",
			input:    "postgres://kittens@db/answers?password=s3cret",
			expected: "postgres://kittens@db/answers?password=[REDACTED_CREDENTIAL]",
		},
		{
			name:     "no userinfo",
			input:    "postgres://db:5432/answers",
			expected: "postgres://db:5432/answers",
		},
		{
			name:     "sqlite path",
			input:    "/var/lib/kittens/answers.db",
			expected: "/var/lib/kittens/answers.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, redact.URL(tt.input))
		})
	}
}
