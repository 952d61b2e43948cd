package server

import (
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

type updatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// CreatePost publishes a new post authored by the current admin.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" || req.Content == "" {
		return models.RespondWithError(c, models.NewValidationError("Please provide all required fields"))
	}

	post := &models.Post{
		UserID:   currentUser(c).ID,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Image:    req.Image,
	}
	if err := s.postRepo.Create(c.UserContext(), post); err != nil {
		return models.RespondWithError(c, err)
	}

	observability.PostsCreated.Inc()
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts searches posts. All filters are optional and AND-combined; the
// response also carries the total matching count and the count of posts
// created in the trailing 30 days.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	q := repository.PostSearch{
		Category:   c.Query("category"),
		Slug:       c.Query("slug"),
		SearchTerm: c.Query("searchTerm"),
		StartIndex: c.QueryInt("startIndex", 0),
		Limit:      c.QueryInt("limit", 9),
		Ascending:  c.Query("order") == "asc",
	}
	if v := c.QueryInt("userId", 0); v > 0 {
		q.UserID = uint(v)
	}
	if v := c.QueryInt("postId", 0); v > 0 {
		q.PostID = uint(v)
	}

	posts, total, lastMonth, err := s.postRepo.Search(c.UserContext(), q)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"posts":          posts,
		"totalPosts":     total,
		"lastMonthPosts": lastMonth,
	})
}

// canMutatePost enforces the post mutation policy: the caller must be an
// admin and the author id in the route must be their own.
func canMutatePost(c *fiber.Ctx, routeUserID uint) bool {
	current := currentUser(c)
	return current.IsAdmin && current.ID == routeUserID
}

// UpdatePost edits a post's content fields.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseUintParam(c, "postId")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	routeUserID, err := parseUintParam(c, "userId")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if !canMutatePost(c, routeUserID) {
		return models.RespondWithError(c, models.NewForbiddenError("You are not allowed to update this post"))
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Content != "" {
		updates["content"] = req.Content
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Image != "" {
		updates["image"] = req.Image
	}

	post, err := s.postRepo.Update(c.UserContext(), postID, updates)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// DeletePost removes a post. Its comments are left in place.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseUintParam(c, "postId")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	routeUserID, err := parseUintParam(c, "userId")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if !canMutatePost(c, routeUserID) {
		return models.RespondWithError(c, models.NewForbiddenError("You are not allowed to delete this post"))
	}

	if err := s.postRepo.Delete(c.UserContext(), postID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "The post has been deleted",
	})
}
