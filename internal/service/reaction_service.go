// Package service implements the application's business rules on top of the
// repository layer.
package service

import (
	"context"

	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"
)

// Reaction outcomes returned by React.
const (
	ReactionAdded   = "added"
	ReactionUpdated = "updated"
	ReactionRemoved = "removed"
)

const maxReactionTypeLen = 32

// Decoration parameters for feed items.
const (
	recentReactorsLimit = 3
	topReactionsSample  = 5
	topReactionsMax     = 2
)

// ReactionService is the reaction ledger: it owns every Reaction row and is
// the only writer of the likes_count counters on posts and comments.
type ReactionService struct {
	reactionRepo repository.ReactionRepository
}

type ReactInput struct {
	UserID     uint
	TargetID   uint
	TargetType string
	Type       string
}

// ReactResult reports what a React call did. Type is the reaction type now in
// effect (empty after a removal).
type ReactResult struct {
	Status string `json:"status"`
	Type   string `json:"type,omitempty"`
}

func NewReactionService(reactionRepo repository.ReactionRepository) *ReactionService {
	return &ReactionService{reactionRepo: reactionRepo}
}

func (s *ReactionService) validateTarget(ctx context.Context, targetID uint, targetType string) error {
	if !models.ValidTargetType(targetType) {
		return models.NewValidationError("Invalid target type")
	}
	exists, err := s.reactionRepo.TargetExists(ctx, targetID, targetType)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError(targetType, targetID)
	}
	return nil
}

// React applies one tap of a reaction button:
//
//   - no existing reaction        -> create it, bump likes_count, "added"
//   - same type already recorded  -> delete it, drop likes_count, "removed"
//   - different type recorded     -> retype the existing row, "updated"
//     (still exactly one reaction, so the counter does not move)
//
// The ledger row and the counter are written as two separate statements; a
// crash in between leaves the counter stale until the next recount. Two
// creates racing on the same (user, target) are serialized by the unique
// index: the loser observes the winner's row and continues as update/toggle.
func (s *ReactionService) React(ctx context.Context, in ReactInput) (*ReactResult, error) {
	if err := s.validateTarget(ctx, in.TargetID, in.TargetType); err != nil {
		return nil, err
	}

	reactionType := in.Type
	if reactionType == "" {
		reactionType = models.DefaultReactionType
	}
	if len(reactionType) > maxReactionTypeLen {
		return nil, models.NewValidationError("Reaction type too long")
	}

	existing, err := s.reactionRepo.Find(ctx, in.UserID, in.TargetID, in.TargetType)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		created, err := s.reactionRepo.Insert(ctx, &models.Reaction{
			UserID:     in.UserID,
			TargetID:   in.TargetID,
			TargetType: in.TargetType,
			Type:       reactionType,
		})
		if err != nil {
			return nil, err
		}
		if created {
			if err := s.reactionRepo.IncrementLikes(ctx, in.TargetID, in.TargetType, 1); err != nil {
				return nil, err
			}
			middleware.ReactionWrites.WithLabelValues(ReactionAdded).Inc()
			return &ReactResult{Status: ReactionAdded, Type: reactionType}, nil
		}

		// Lost a create race: another request for the same (user, target)
		// inserted first. Re-read the winning row and fall through to the
		// update/toggle logic against it.
		existing, err = s.reactionRepo.Find(ctx, in.UserID, in.TargetID, in.TargetType)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			// Winner toggled off again in the meantime; retry once as a create.
			return s.React(ctx, in)
		}
	}

	if existing.Type == reactionType {
		if err := s.reactionRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		if err := s.reactionRepo.IncrementLikes(ctx, in.TargetID, in.TargetType, -1); err != nil {
			return nil, err
		}
		middleware.ReactionWrites.WithLabelValues(ReactionRemoved).Inc()
		return &ReactResult{Status: ReactionRemoved}, nil
	}

	if err := s.reactionRepo.UpdateType(ctx, existing.ID, reactionType); err != nil {
		return nil, err
	}
	middleware.ReactionWrites.WithLabelValues(ReactionUpdated).Inc()
	return &ReactResult{Status: ReactionUpdated, Type: reactionType}, nil
}

// ListReactors returns every reaction on a target, newest first, with the
// reactor identity preloaded. Backs the "who reacted" detail view.
func (s *ReactionService) ListReactors(ctx context.Context, targetID uint, targetType string) ([]*models.Reaction, error) {
	if err := s.validateTarget(ctx, targetID, targetType); err != nil {
		return nil, err
	}
	return s.reactionRepo.ListByTarget(ctx, targetID, targetType)
}

// MyReaction returns the viewer's reaction type on a target, or "" if none.
func (s *ReactionService) MyReaction(ctx context.Context, userID, targetID uint, targetType string) (string, error) {
	reaction, err := s.reactionRepo.Find(ctx, userID, targetID, targetType)
	if err != nil {
		return "", err
	}
	if reaction == nil {
		return "", nil
	}
	return reaction.Type, nil
}

// TopReactionTypes samples the sampleSize most recent reactions and returns
// up to maxDistinct distinct types in order of first occurrence. A recency
// heuristic, not an exact most-popular aggregation: it stays O(sampleSize)
// regardless of how many reactions the target has.
func (s *ReactionService) TopReactionTypes(ctx context.Context, targetID uint, targetType string, sampleSize, maxDistinct int) ([]string, error) {
	recent, err := s.reactionRepo.ListRecent(ctx, targetID, targetType, sampleSize)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, maxDistinct)
	var types []string
	for _, reaction := range recent {
		if _, ok := seen[reaction.Type]; ok {
			continue
		}
		seen[reaction.Type] = struct{}{}
		types = append(types, reaction.Type)
		if len(types) == maxDistinct {
			break
		}
	}
	return types, nil
}

// DecoratePost attaches viewer state and the recent-reactor avatar stack to a
// post before it is returned to a client.
func (s *ReactionService) DecoratePost(ctx context.Context, post *models.Post, viewerID uint) error {
	if viewerID != 0 {
		myType, err := s.MyReaction(ctx, viewerID, post.ID, models.TargetPost)
		if err != nil {
			return err
		}
		post.Liked = myType != ""
		post.UserReaction = myType
	}

	recent, err := s.reactionRepo.ListRecent(ctx, post.ID, models.TargetPost, recentReactorsLimit)
	if err != nil {
		return err
	}
	reactors := make([]models.User, 0, len(recent))
	for _, reaction := range recent {
		reactors = append(reactors, reaction.User)
	}
	post.RecentReactors = reactors
	return nil
}

// DecoratePosts decorates a feed page item by item. Each decoration is an
// independent read; no cross-item batching is attempted.
func (s *ReactionService) DecoratePosts(ctx context.Context, posts []*models.Post, viewerID uint) error {
	for _, post := range posts {
		if err := s.DecoratePost(ctx, post, viewerID); err != nil {
			return err
		}
	}
	return nil
}

// DecorateComment attaches viewer state and the top-reaction badge summary to
// a comment.
func (s *ReactionService) DecorateComment(ctx context.Context, comment *models.Comment, viewerID uint) error {
	if viewerID != 0 {
		myType, err := s.MyReaction(ctx, viewerID, comment.ID, models.TargetComment)
		if err != nil {
			return err
		}
		comment.Liked = myType != ""
		comment.UserReaction = myType
	}

	types, err := s.TopReactionTypes(ctx, comment.ID, models.TargetComment, topReactionsSample, topReactionsMax)
	if err != nil {
		return err
	}
	comment.TopReactions = types
	return nil
}

func (s *ReactionService) DecorateComments(ctx context.Context, comments []*models.Comment, viewerID uint) error {
	for _, comment := range comments {
		if err := s.DecorateComment(ctx, comment, viewerID); err != nil {
			return err
		}
	}
	return nil
}
