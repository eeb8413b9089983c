// Package validation holds the input checks shared by the auth and user
// handlers.
package validation

import (
	"net/mail"
	"strings"
	"unicode"

	"sahkan/internal/models"
)

const minPasswordLength = 8

// ValidateEmail checks basic RFC 5322 shape.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.NewValidationError("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.NewValidationError("email is not valid")
	}
	return nil
}

// ValidatePassword requires a minimum length plus at least one letter and
// one digit.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return models.NewValidationError("password must be at least 8 characters")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return models.NewValidationError("password must contain at least one letter and one digit")
	}
	return nil
}

// ValidateName rejects blank display names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return models.NewValidationError("name is required")
	}
	return nil
}
