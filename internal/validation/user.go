// Package validation provides input validation for user-supplied fields.
package validation

import (
	"regexp"
	"strings"

	"inkwell/internal/models"
)

var alphanumeric = regexp.MustCompile(`^[a-z0-9]+$`)

// ValidateUsername enforces the account naming rules: 6 to 40 characters,
// lowercase, letters and digits only, no whitespace.
func ValidateUsername(username string) error {
	if len(username) < 6 || len(username) > 40 {
		return models.NewValidationError("Username must be between 6 and 40 characters")
	}
	if strings.ContainsAny(username, " \t\n") {
		return models.NewValidationError("Username cannot contain spaces")
	}
	if username != strings.ToLower(username) {
		return models.NewValidationError("Username must be lowercase")
	}
	if !alphanumeric.MatchString(username) {
		return models.NewValidationError("Username can only contain letters and numbers")
	}
	return nil
}

// ValidatePassword enforces the minimum password length. The hash is what
// gets persisted, so no upper bound beyond bcrypt's own 72-byte limit applies.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return models.NewValidationError("Password must be at least 6 characters")
	}
	return nil
}
