package repository

import (
	"context"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListRoots(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error)
	ListReplies(ctx context.Context, rootID uint) ([]*models.Comment, error)
	IncrementReplies(ctx context.Context, commentID uint, delta int) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ReplyToUser").
		First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListRoots returns top-level comments for a post, newest first. Offset-based
// pagination: an insert between page fetches can shift rows across pages,
// which is accepted.
func (r *commentRepository) ListRoots(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ? AND parent_comment_id IS NULL", postID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

// ListReplies returns every reply under a root comment in chronological
// reading order (oldest first), unbounded.
func (r *commentRepository) ListReplies(ctx context.Context, rootID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ReplyToUser").
		Where("parent_comment_id = ?", rootID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// IncrementReplies atomically adjusts the denormalized reply_count of a root comment.
func (r *commentRepository) IncrementReplies(ctx context.Context, commentID uint, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", commentID).
		UpdateColumn("reply_count", gorm.Expr("reply_count + ?", delta)).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}
