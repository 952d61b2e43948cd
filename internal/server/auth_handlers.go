package server

import (
	"fmt"
	"math/rand"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleAuthRequest struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	GooglePhotoURL string `json:"googlePhotoUrl"`
}

// Signup registers a new account.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, models.NewValidationError("All fields are required"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, err)
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		Password:       hash,
		ProfilePicture: models.DefaultProfilePicture,
	}
	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		return models.RespondWithError(c, err)
	}

	observability.SignupsTotal.WithLabelValues("local").Inc()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Signup successful",
	})
}

// Signin verifies credentials and establishes a session cookie.
func (s *Server) Signin(c *fiber.Ctx) error {
	var req signinRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, models.NewValidationError("All fields are required"))
	}

	user, err := s.userRepo.GetByEmail(c.UserContext(), req.Email)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if user == nil {
		observability.RecordAuthFailure("unknown_user")
		return models.RespondWithError(c, models.NewNotFoundError("User"))
	}
	if !s.hasher.Verify(user.Password, req.Password) {
		observability.RecordAuthFailure("bad_password")
		return models.RespondWithError(c, models.NewValidationError("Invalid password"))
	}

	return s.establishSession(c, user)
}

// GoogleAuth signs in an account by verified Google profile, creating it with
// generated credentials on first sight.
func (s *Server) GoogleAuth(c *fiber.Ctx) error {
	var req googleAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" {
		return models.RespondWithError(c, models.NewValidationError("Email is required"))
	}

	user, err := s.userRepo.GetByEmail(c.UserContext(), req.Email)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if user == nil {
		username, err := s.generateUsername(c, req.Name)
		if err != nil {
			return models.RespondWithError(c, err)
		}

		// The account still needs a password column; nobody ever types this one.
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			return models.RespondWithError(c, models.NewInternalError(err))
		}

		picture := req.GooglePhotoURL
		if picture == "" {
			picture = models.DefaultProfilePicture
		}

		user = &models.User{
			Username:       username,
			Email:          req.Email,
			Password:       hash,
			ProfilePicture: picture,
		}
		if err := s.userRepo.Create(c.UserContext(), user); err != nil {
			return models.RespondWithError(c, err)
		}
		observability.SignupsTotal.WithLabelValues("google").Inc()
	}

	return s.establishSession(c, user)
}

// generateUsername derives a unique username from a display name: lowercase,
// spaces removed, with a random 4-digit suffix retried until free.
func (s *Server) generateUsername(c *fiber.Ctx, name string) (string, error) {
	base := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	if base == "" {
		base = "reader"
	}

	for i := 0; i < 10; i++ {
		candidate := fmt.Sprintf("%s%04d", base, rand.Intn(10000))
		existing, err := s.userRepo.GetByUsername(c.UserContext(), candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
	}
	return fmt.Sprintf("%s%s", base, uuid.NewString()[:8]), nil
}

func (s *Server) establishSession(c *fiber.Ctx, user *models.User) error {
	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	observability.SessionsIssued.Inc()
	setSessionCookie(c, token)
	return c.Status(fiber.StatusOK).JSON(user)
}

// Signout clears the session cookie. Tokens are stateless, so the cookie is
// the only thing to remove.
func (s *Server) Signout(c *fiber.Ctx) error {
	clearSessionCookie(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "User has been signed out",
	})
}
