package security

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// AccountPasswordMinLength is the floor for passwords set by an administrator.
const AccountPasswordMinLength = 6

var (
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrPasswordTooShort  = errors.New("password too short")
	ErrPasswordUnchanged = errors.New("new password must differ from current password")
)

// CheckNewPassword applies the self-service change rules: the confirmation must
// match, and the password must have at least minLength characters.
func CheckNewPassword(current, next, confirm string, minLength int) error {
	if next != confirm {
		return ErrPasswordMismatch
	}
	if utf8.RuneCountInString(next) < minLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooShort, minLength)
	}
	if current != "" && current == next {
		return ErrPasswordUnchanged
	}
	return nil
}
