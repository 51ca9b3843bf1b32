package server

import (
	"time"

	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// React handles POST /api/reactions/:targetType/:targetId
// One tap of a reaction button: adds, retypes, or removes the caller's
// reaction depending on what is already recorded.
// @Summary React to a post or comment
// @Tags reactions
// @Accept json
// @Produce json
// @Param targetType path string true "post or comment"
// @Param targetId path int true "Target ID"
// @Param request body object{type=string} false "Reaction type, defaults to Like"
// @Success 200 {object} service.ReactResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reactions/{targetType}/{targetId} [post]
func (s *Server) React(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "targetId")
	if err != nil {
		return nil
	}
	targetType := c.Params("targetType")

	var req struct {
		Type string `json:"type"`
	}
	// Body is optional; an empty body means the default reaction type.
	_ = c.BodyParser(&req)

	result, err := s.reactionService.React(ctx, service.ReactInput{
		UserID:     userID,
		TargetID:   targetID,
		TargetType: targetType,
		Type:       req.Type,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishBroadcastEvent(EventReactionUpdated, map[string]interface{}{
		"target_id":   targetID,
		"target_type": targetType,
		"status":      result.Status,
		"type":        result.Type,
		"updated_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(result)
}

// GetReactors handles GET /api/reactions/:targetType/:targetId — everyone
// who reacted, newest first.
func (s *Server) GetReactors(c *fiber.Ctx) error {
	ctx := c.UserContext()

	targetID, err := s.parseID(c, "targetId")
	if err != nil {
		return nil
	}
	targetType := c.Params("targetType")

	reactions, err := s.reactionService.ListReactors(ctx, targetID, targetType)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(reactions)
}

// LikePost handles POST /api/posts/:id/like
//
// Deprecated alias for POST /api/reactions/post/:id kept for older clients.
// Same toggle semantics; returns the decorated post like the original route
// did.
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.reactionService.React(ctx, service.ReactInput{
		UserID:     userID,
		TargetID:   postID,
		TargetType: models.TargetPost,
		Type:       models.DefaultReactionType,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	post, err := s.postService.GetPost(ctx, postID, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	if decErr := s.reactionService.DecoratePost(ctx, post, userID); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}

	s.publishBroadcastEvent(EventReactionUpdated, map[string]interface{}{
		"target_id":   postID,
		"target_type": models.TargetPost,
		"status":      result.Status,
		"type":        result.Type,
		"likes_count": post.LikesCount,
		"updated_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(post)
}
