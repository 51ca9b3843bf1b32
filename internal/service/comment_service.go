package service

import (
	"context"
	"errors"

	"ripple/internal/models"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

const (
	maxCommentLen       = 10000
	defaultCommentLimit = 10
)

// CommentService is the comment thread engine. It resolves every new comment
// to its place in the two-level hierarchy and maintains the comments_count
// and reply_count counters.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type AddCommentInput struct {
	UserID   uint
	PostID   uint
	Content  string
	ParentID *uint
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// AddComment creates a comment against a post or another comment.
//
// Parent resolution keeps the thread exactly two levels deep:
//
//   - no parent                  -> root comment
//   - parent is a root           -> attach under it, tag the root's author
//   - parent is itself a reply   -> re-attach under the parent's own root,
//     but tag the reply's author (the person actually being answered)
//
// So a reply chain of any requested depth flattens to (root, replies-to-root)
// while @-mention tagging still points at the immediate addressee.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	exists, err := s.postRepo.Exists(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	comment := &models.Comment{
		Content: in.Content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Comment", *in.ParentID)
			}
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}

		rootID := parent.ID
		if parent.ParentCommentID != nil {
			rootID = *parent.ParentCommentID
		}
		replyTo := parent.UserID
		comment.ParentCommentID = &rootID
		comment.ReplyToUserID = &replyTo
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Counter updates run after the insert as separate statements; a failure
	// here leaves the counters stale, not the comment missing.
	if err := s.postRepo.IncrementComments(ctx, in.PostID, 1); err != nil {
		return nil, err
	}
	if comment.ParentCommentID != nil {
		if err := s.commentRepo.IncrementReplies(ctx, *comment.ParentCommentID, 1); err != nil {
			return nil, err
		}
	}

	// Re-read for the author and reply-to identity preloads.
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListRootComments returns one page of top-level comments, newest first.
func (s *CommentService) ListRootComments(ctx context.Context, postID uint, offset, limit int) ([]*models.Comment, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Post", postID)
	}

	if limit <= 0 {
		limit = defaultCommentLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.commentRepo.ListRoots(ctx, postID, limit, offset)
}

// ListReplies returns every reply under a root comment, oldest first.
func (s *CommentService) ListReplies(ctx context.Context, rootID uint) ([]*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, rootID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", rootID)
		}
		return nil, err
	}
	return s.commentRepo.ListReplies(ctx, rootID)
}
