package repository

import (
	"context"
	"errors"
	"fmt"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeTargets maps a reaction target type to the model carrying its
// likes_count column. The ledger dispatches on this table instead of keeping
// per-type code paths.
var likeTargets = map[string]func() interface{}{
	models.TargetPost:    func() interface{} { return &models.Post{} },
	models.TargetComment: func() interface{} { return &models.Comment{} },
}

// ReactionRepository is the reaction ledger's storage interface. One live row
// per (user, target); uniqueness is enforced by the composite index and
// surfaced through Insert's created flag.
type ReactionRepository interface {
	Find(ctx context.Context, userID, targetID uint, targetType string) (*models.Reaction, error)
	Insert(ctx context.Context, reaction *models.Reaction) (created bool, err error)
	UpdateType(ctx context.Context, id uint, reactionType string) error
	Delete(ctx context.Context, id uint) error
	ListByTarget(ctx context.Context, targetID uint, targetType string) ([]*models.Reaction, error)
	ListRecent(ctx context.Context, targetID uint, targetType string, limit int) ([]*models.Reaction, error)
	TargetExists(ctx context.Context, targetID uint, targetType string) (bool, error)
	IncrementLikes(ctx context.Context, targetID uint, targetType string, delta int) error
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Find returns (nil, nil) when the user has no reaction on the target.
func (r *reactionRepository) Find(ctx context.Context, userID, targetID uint, targetType string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// Insert creates the ledger row. A concurrent insert racing on the unique
// (user, target) index is absorbed by ON CONFLICT DO NOTHING; created reports
// whether this call won the race.
func (r *reactionRepository) Insert(ctx context.Context, reaction *models.Reaction) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_id"}, {Name: "target_type"}},
			DoNothing: true,
		}).
		Create(reaction)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *reactionRepository) UpdateType(ctx context.Context, id uint, reactionType string) error {
	return r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("id = ?", id).
		UpdateColumn("type", reactionType).Error
}

func (r *reactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Reaction{}, id).Error
}

func (r *reactionRepository) ListByTarget(ctx context.Context, targetID uint, targetType string) ([]*models.Reaction, error) {
	var reactions []*models.Reaction
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("target_id = ? AND target_type = ?", targetID, targetType).
		Order("created_at DESC").
		Find(&reactions).Error
	return reactions, err
}

// ListRecent returns the newest `limit` ledger rows for a target; used for
// the recent-reactor avatar stack and the top-reaction-types sample.
func (r *reactionRepository) ListRecent(ctx context.Context, targetID uint, targetType string, limit int) ([]*models.Reaction, error) {
	var reactions []*models.Reaction
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("target_id = ? AND target_type = ?", targetID, targetType).
		Order("created_at DESC").
		Limit(limit).
		Find(&reactions).Error
	return reactions, err
}

func (r *reactionRepository) TargetExists(ctx context.Context, targetID uint, targetType string) (bool, error) {
	target, ok := likeTargets[targetType]
	if !ok {
		return false, fmt.Errorf("unknown target type %q", targetType)
	}
	var count int64
	err := r.db.WithContext(ctx).Model(target()).Where("id = ?", targetID).Count(&count).Error
	return count > 0, err
}

// IncrementLikes atomically adjusts the denormalized likes_count on the
// target row. This is the second step of the ledger's documented
// non-transactional write pair; the counter column is chosen by the
// likeTargets dispatch table.
func (r *reactionRepository) IncrementLikes(ctx context.Context, targetID uint, targetType string, delta int) error {
	target, ok := likeTargets[targetType]
	if !ok {
		return fmt.Errorf("unknown target type %q", targetType)
	}
	err := r.db.WithContext(ctx).
		Model(target()).
		Where("id = ?", targetID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta)).Error
	if err == nil && targetType == models.TargetPost {
		cache.InvalidatePost(ctx, targetID)
	}
	return err
}
