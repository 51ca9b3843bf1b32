package server

import (
	"time"

	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
// @Summary Comment on a post, optionally replying to another comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body object{content=string,parent_comment_id=integer} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content         string `json:"content"`
		ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(ctx, service.AddCommentInput{
		UserID:   userID,
		PostID:   postID,
		Content:  req.Content,
		ParentID: req.ParentCommentID,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if decErr := s.reactionService.DecorateComment(ctx, comment, userID); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}

	s.publishBroadcastEvent(EventCommentCreated, map[string]interface{}{
		"post_id":    postID,
		"comment_id": comment.ID,
		"author_id":  comment.UserID,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments — one page of root
// comments, newest first, decorated for the viewer.
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 10)
	viewer := viewerID(c)

	comments, err := s.commentService.ListRootComments(ctx, postID, page.Offset, page.Limit)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if decErr := s.reactionService.DecorateComments(ctx, comments, viewer); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}

	return c.JSON(comments)
}

// GetReplies handles GET /api/comments/:id/replies — every reply under a
// root comment, oldest first.
func (s *Server) GetReplies(c *fiber.Ctx) error {
	ctx := c.UserContext()

	rootID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewer := viewerID(c)

	replies, err := s.commentService.ListReplies(ctx, rootID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if decErr := s.reactionService.DecorateComments(ctx, replies, viewer); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}

	return c.JSON(replies)
}
