package server

import (
	"errors"
	"strconv"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// currentUser returns the authenticated user loaded by AuthRequired, or nil.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("currentUser").(*models.User)
	return user
}

// parseUintParam parses a numeric route parameter.
func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// setSessionCookie attaches the session token to the response.
// Secure is off so plain-HTTP local development works; enable it behind
// TLS termination.
func setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  time.Now().Add(auth.DefaultTokenTTL),
		HTTPOnly: true,
		Secure:   false,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// clearSessionCookie expires the session cookie on the client.
func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// recordTokenFailure feeds the auth failure counter with the error's code.
func recordTokenFailure(err error) {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		observability.RecordAuthFailure(appErr.Code)
		return
	}
	observability.RecordAuthFailure(models.CodeInternal)
}
