package server

import (
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type updateUserRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	ProfilePicture string `json:"profilePicture"`
}

type updateAdminRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

// UpdateUser lets a user edit their own profile.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	current := currentUser(c)
	if current.ID != userID {
		return models.RespondWithError(c, models.NewForbiddenError("You are not allowed to update this user"))
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	if req.Username != "" {
		req.Username = strings.TrimSpace(req.Username)
		if err := validation.ValidateUsername(req.Username); err != nil {
			return models.RespondWithError(c, err)
		}
		current.Username = req.Username
	}
	if req.Email != "" {
		current.Email = strings.TrimSpace(req.Email)
	}
	if req.ProfilePicture != "" {
		current.ProfilePicture = req.ProfilePicture
	}
	if req.Password != "" {
		if err := validation.ValidatePassword(req.Password); err != nil {
			return models.RespondWithError(c, err)
		}
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return models.RespondWithError(c, models.NewInternalError(err))
		}
		current.Password = hash
	}

	if err := s.userRepo.Update(c.UserContext(), current); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(current)
}

// DeleteUser removes an account. Users may delete themselves; admins may
// delete anyone.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	current := currentUser(c)
	if !current.IsAdmin && current.ID != userID {
		return models.RespondWithError(c, models.NewForbiddenError("You are not allowed to delete this user"))
	}

	if err := s.userRepo.Delete(c.UserContext(), userID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "User has been deleted",
	})
}

// GetUsers returns a page of users for the admin dashboard along with the
// total and trailing-30-day counts.
func (s *Server) GetUsers(c *fiber.Ctx) error {
	startIndex := c.QueryInt("startIndex", 0)
	limit := c.QueryInt("limit", 9)
	ascending := c.Query("sort") == "asc"

	users, total, lastMonth, err := s.userRepo.List(c.UserContext(), limit, startIndex, ascending)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"users":          users,
		"totalUsers":     total,
		"lastMonthUsers": lastMonth,
	})
}

// GetUser returns the public view of a single user.
func (s *Server) GetUser(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// UpdateAdminStatus grants or revokes the admin flag. Admins cannot change
// their own status, which keeps the last admin from locking everyone out.
func (s *Server) UpdateAdminStatus(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	current := currentUser(c)
	if current.ID == userID {
		return models.RespondWithError(c, models.NewForbiddenError("You cannot change your own admin status"))
	}

	var req updateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	user.IsAdmin = req.IsAdmin
	if err := s.userRepo.Update(c.UserContext(), user); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}
