package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post.
//
// The thread is at most two levels deep: ParentCommentID is either nil (a
// root comment) or references a comment whose own ParentCommentID is nil.
// Replies to replies are re-attached to the original root at write time, with
// ReplyToUserID tagging the immediate author being answered. ReplyCount is a
// denormalized counter maintained the same way as the Post counters.
type Comment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	PostID          uint           `gorm:"not null;index" json:"post_id"`
	UserID          uint           `gorm:"not null" json:"user_id"`
	User            User           `gorm:"foreignKey:UserID" json:"user"`
	ParentCommentID *uint          `gorm:"index" json:"parent_comment_id,omitempty"`
	ReplyToUserID   *uint          `json:"reply_to_user_id,omitempty"`
	ReplyToUser     *User          `gorm:"foreignKey:ReplyToUserID" json:"reply_to_user,omitempty"`
	LikesCount      int            `gorm:"not null;default:0" json:"likes_count"`
	ReplyCount      int            `gorm:"not null;default:0" json:"reply_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Viewer-specific decoration, never persisted.
	Liked        bool     `gorm:"-" json:"liked"`
	UserReaction string   `gorm:"-" json:"user_reaction,omitempty"`
	TopReactions []string `gorm:"-" json:"top_reactions,omitempty"`
}
