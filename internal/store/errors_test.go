package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "wrapped ErrNotFound", err: fmt.Errorf("lookup: %w", ErrNotFound), expected: true},
		{name: "ErrUserNotFound", err: ErrUserNotFound, expected: true},
		{name: "ErrQuestionNotFound", err: ErrQuestionNotFound, expected: true},
		{name: "wrapped ErrAnswerNotFound", err: fmt.Errorf("get answer: %w", ErrAnswerNotFound), expected: true},
		{name: "duplicate is not not-found", err: ErrUserExists, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: true},
		{name: "ErrUserExists", err: ErrUserExists, expected: true},
		{name: "ErrQuestionExists", err: ErrQuestionExists, expected: true},
		{name: "wrapped ErrAnswerExists", err: fmt.Errorf("create: %w", ErrAnswerExists), expected: true},
		{name: "not-found is not duplicate", err: ErrQuestionNotFound, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDuplicateError(tt.err))
		})
	}
}

func TestEntityErrorsAreDistinct(t *testing.T) {
	assert.NotErrorIs(t, ErrUserNotFound, ErrQuestionNotFound)
	assert.NotErrorIs(t, ErrQuestionExists, ErrAnswerExists)
	assert.Equal(t, "entity not found: user", ErrUserNotFound.Error())
	assert.Equal(t, "entity already exists: answer", ErrAnswerExists.Error())
}
