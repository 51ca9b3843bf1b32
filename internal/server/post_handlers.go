package server

import (
	"time"

	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{content=string,image_url=string,privacy=string} true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Content  string `json:"content"`
		ImageURL string `json:"image_url,omitempty"`
		Privacy  string `json:"privacy,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:   userID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Privacy:  req.Privacy,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if decErr := s.reactionService.DecoratePost(ctx, post, userID); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}

	s.publishBroadcastEvent(EventPostCreated, map[string]interface{}{
		"post_id":    post.ID,
		"author_id":  post.UserID,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetFeed handles GET /api/feed
// @Summary Get the home feed
// @Tags posts
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Post
// @Router /feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := parsePagination(c, 20)
	viewer := viewerID(c)

	posts, err := s.postService.ListFeed(ctx, service.ListFeedInput{
		ViewerID: viewer,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if decErr := s.reactionService.DecoratePosts(ctx, posts, viewer); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewer := viewerID(c)

	post, err := s.postService.GetPost(ctx, postID, viewer)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if decErr := s.reactionService.DecoratePost(ctx, post, viewer); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}

	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userIDParam, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	viewer := viewerID(c)

	posts, err := s.postService.ListByUser(ctx, userIDParam, viewer, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if decErr := s.reactionService.DecoratePosts(ctx, posts, viewer); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}

	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		ImageURL string `json:"image_url,omitempty"`
		Privacy  string `json:"privacy,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		UserID:   userID,
		PostID:   postID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Privacy:  req.Privacy,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if decErr := s.reactionService.DecoratePost(ctx, post, userID); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if delErr := s.postService.DeletePost(ctx, userID, postID); delErr != nil {
		return models.RespondWithError(c, mapServiceError(delErr), delErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
