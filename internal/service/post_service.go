package service

import (
	"context"
	"errors"
	"strings"

	"ripple/internal/models"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

const (
	maxPostContentLen = 50000
	defaultFeedLimit  = 20
)

// PostService owns post lifecycle and the feed visibility rule.
type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID   uint
	Content  string
	ImageURL string
	Privacy  string
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Content  string
	ImageURL string
	Privacy  string
}

type ListFeedInput struct {
	ViewerID uint
	Limit    int
	Offset   int
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func validPrivacy(privacy string) bool {
	return privacy == "" || privacy == models.PrivacyPublic || privacy == models.PrivacyPrivate
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Content) == "" && strings.TrimSpace(in.ImageURL) == "" {
		return nil, models.NewValidationError("Content or image is required")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if !validPrivacy(in.Privacy) {
		return nil, models.NewValidationError("Invalid privacy value")
	}

	privacy := in.Privacy
	if privacy == "" {
		privacy = models.PrivacyPublic
	}

	post := &models.Post{
		Content:  in.Content,
		ImageURL: in.ImageURL,
		Privacy:  privacy,
		UserID:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns a single post if the viewer may see it.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	// Private posts are indistinguishable from missing ones to other viewers.
	if post.Privacy == models.PrivacyPrivate && post.UserID != viewerID {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

// ListFeed returns the newest-first feed page visible to the viewer: public
// posts, legacy rows without a privacy value, and the viewer's own posts.
func (s *PostService) ListFeed(ctx context.Context, in ListFeedInput) ([]*models.Post, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.ListFeed(ctx, in.ViewerID, limit, offset)
}

func (s *PostService) ListByUser(ctx context.Context, userID, viewerID uint, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.ListByUser(ctx, userID, viewerID, limit, offset)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if strings.TrimSpace(in.Content) == "" && strings.TrimSpace(in.ImageURL) == "" {
		return nil, models.NewValidationError("Content or image is required")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if !validPrivacy(in.Privacy) {
		return nil, models.NewValidationError("Invalid privacy value")
	}

	post.Content = in.Content
	post.ImageURL = in.ImageURL
	if in.Privacy != "" {
		post.Privacy = in.Privacy
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return err
	}
	if post.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}
