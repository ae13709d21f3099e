package domain

import (
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxForeignIDLength is the maximum length of a user foreign id, in characters.
const MaxForeignIDLength = 500

// User is the identity record of somebody who creates questions and answers.
// The foreign id is supplied by the integrating application and is unique.
type User struct {
	UID       uuid.UUID `json:"uid"`
	ForeignID string    `json:"foreign_id"`
}

// NewUser creates a new User with a freshly generated uid.
// Returns an error if validation fails.
func NewUser(foreignID string) (*User, error) {
	user := &User{
		UID:       uuid.New(),
		ForeignID: foreignID,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.UID == uuid.Nil {
		return ErrEmptyUserID
	}

	return validateForeignID(u.ForeignID)
}

// ValidateForeignID checks a foreign id without building a User. Stores use it
// to reject bad lookups before touching storage.
func ValidateForeignID(foreignID string) error {
	return validateForeignID(foreignID)
}

func validateForeignID(foreignID string) error {
	if foreignID == "" {
		return ErrEmptyForeignID
	}

	if utf8.RuneCountInString(foreignID) > MaxForeignIDLength {
		return ErrForeignIDTooLong
	}

	return nil
}

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	c := *u
	return &c
}
