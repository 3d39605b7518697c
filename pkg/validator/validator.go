package validator

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooWeak  = errors.New("password must contain at least one letter, one digit and one special character")
)

const specialChars = `!@#$%^&*(),.?":{}|<>`

type Validator interface {
	ValidatePassword(password string) error
}

type authValidator struct{}

func NewValidator() Validator {
	return &authValidator{}
}

func (a *authValidator) ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	if !hasLetter || !hasDigit || !hasSpecial {
		return ErrPasswordTooWeak
	}

	return nil
}
