package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError for programmatic checks.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeMissingToken = "MISSING_TOKEN"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeExpiredToken = "EXPIRED_TOKEN"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is the application error type. Status is the HTTP status the error
// maps to; Message is what the caller sees.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports malformed, missing, or out-of-range input.
func NewValidationError(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: CodeValidation, Message: message}
}

// NewConflictError reports a uniqueness violation (username, email, title, slug).
func NewConflictError(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: CodeConflict, Message: message}
}

// NewMissingTokenError reports an absent session token.
func NewMissingTokenError() *AppError {
	return &AppError{Status: fiber.StatusUnauthorized, Code: CodeMissingToken, Message: "Token is missing"}
}

// NewInvalidTokenError reports a token whose signature, format, or backing
// identity cannot be trusted.
func NewInvalidTokenError() *AppError {
	return &AppError{Status: fiber.StatusUnauthorized, Code: CodeInvalidToken, Message: "Invalid token"}
}

// NewExpiredTokenError reports a token past its expiry.
func NewExpiredTokenError() *AppError {
	return &AppError{Status: fiber.StatusUnauthorized, Code: CodeExpiredToken, Message: "Token has expired"}
}

// NewForbiddenError reports an ownership or admin policy violation.
func NewForbiddenError(message string) *AppError {
	return &AppError{Status: fiber.StatusForbidden, Code: CodeForbidden, Message: message}
}

// NewNotFoundError reports an id that does not resolve to a resource.
func NewNotFoundError(resource string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Code: CodeNotFound, Message: resource + " not found"}
}

// NewInternalError wraps a persistence or unexpected failure. The underlying
// message is surfaced so callers see what failed.
func NewInternalError(err error) *AppError {
	msg := "Internal server error"
	if err != nil {
		msg = err.Error()
	}
	return &AppError{Status: fiber.StatusInternalServerError, Code: CodeInternal, Message: msg, Err: err}
}

// RespondWithError renders err as the uniform error envelope, deriving the
// HTTP status from the error itself. Non-AppError values become 500s.
func RespondWithError(c *fiber.Ctx, err error) error {
	appErr, ok := err.(*AppError)
	if !ok {
		appErr = NewInternalError(err)
	}
	return c.Status(appErr.Status).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"status":  appErr.Status,
			"message": appErr.Message,
		},
	})
}
