package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("tg:42")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.UID, "uid should be generated")
	assert.Equal(t, "tg:42", user.ForeignID)

	other, err := NewUser("tg:42")
	require.NoError(t, err)
	assert.NotEqual(t, user.UID, other.UID, "every user gets its own uid")
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name      string
		foreignID string
		wantErr   error
	}{
		{name: "empty", foreignID: "", wantErr: ErrEmptyForeignID},
		{name: "max length", foreignID: strings.Repeat("x", MaxForeignIDLength)},
		{name: "too long", foreignID: strings.Repeat("x", MaxForeignIDLength+1), wantErr: ErrForeignIDTooLong},
		{name: "multibyte at max length", foreignID: strings.Repeat("я", MaxForeignIDLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.foreignID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestUserValidate(t *testing.T) {
	user := User{ForeignID: "id"}
	assert.ErrorIs(t, user.Validate(), ErrEmptyUserID)

	user.UID = uuid.New()
	assert.NoError(t, user.Validate())
}
