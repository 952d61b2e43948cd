package server

import (
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	Content string `json:"content"`
	PostID  uint   `json:"postId"`
	UserID  uint   `json:"userId"`
}

type editCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment adds a comment to a post on behalf of the current user.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if req.Content == "" || req.PostID == 0 || req.UserID == 0 {
		return models.RespondWithError(c, models.NewValidationError("All fields are required"))
	}
	if req.UserID != currentUser(c).ID {
		return models.RespondWithError(c, models.NewForbiddenError("You are not allowed to create this comment"))
	}

	comment := &models.Comment{
		PostID:  req.PostID,
		UserID:  req.UserID,
		Content: req.Content,
	}
	if err := s.commentRepo.Create(c.UserContext(), comment); err != nil {
		return models.RespondWithError(c, err)
	}

	observability.CommentsCreated.Inc()
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetPostComments returns a post's comments, newest first.
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	postID, err := parseUintParam(c, "postId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	comments, err := s.commentRepo.ListByPost(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}

// GetComments returns a page of all comments for the admin dashboard.
func (s *Server) GetComments(c *fiber.Ctx) error {
	startIndex := c.QueryInt("startIndex", 0)
	limit := c.QueryInt("limit", 9)
	ascending := c.Query("sort") == "asc"

	comments, total, lastMonth, err := s.commentRepo.ListAll(c.UserContext(), limit, startIndex, ascending)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"comments":          comments,
		"totalComments":     total,
		"lastMonthComments": lastMonth,
	})
}

// LikeComment toggles the current user's like on a comment.
func (s *Server) LikeComment(c *fiber.Ctx) error {
	commentID, err := parseUintParam(c, "commentId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	comment, liked, err := s.commentRepo.ToggleLike(c.UserContext(), commentID, currentUser(c).ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if liked {
		observability.RecordLikeToggle("liked")
	} else {
		observability.RecordLikeToggle("unliked")
	}
	return c.Status(fiber.StatusOK).JSON(comment)
}

// canMutateComment reports whether the current user may edit or delete the
// comment: its owner or any admin.
func canMutateComment(c *fiber.Ctx, comment *models.Comment) bool {
	current := currentUser(c)
	return current.IsAdmin || current.ID == comment.UserID
}

// EditComment replaces a comment's content.
func (s *Server) EditComment(c *fiber.Ctx) error {
	commentID, err := parseUintParam(c, "commentId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	comment, err := s.commentRepo.GetByID(c.UserContext(), commentID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if !canMutateComment(c, comment) {
		return models.RespondWithError(c, models.NewForbiddenError("You are not allowed to edit this comment"))
	}

	var req editCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if req.Content == "" {
		return models.RespondWithError(c, models.NewValidationError("Content is required"))
	}

	updated, err := s.commentRepo.UpdateContent(c.UserContext(), commentID, req.Content)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteComment removes a comment and its like rows.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseUintParam(c, "commentId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	comment, err := s.commentRepo.GetByID(c.UserContext(), commentID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if !canMutateComment(c, comment) {
		return models.RespondWithError(c, models.NewForbiddenError("You are not allowed to delete this comment"))
	}

	if err := s.commentRepo.Delete(c.UserContext(), commentID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Comment has been deleted",
	})
}
