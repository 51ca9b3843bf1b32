package models

import (
	"time"

	"gorm.io/gorm"
)

// Post privacy levels. An empty value on legacy rows is treated as public.
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// Post represents a feed post in the Ripple application.
//
// LikesCount and CommentsCount are denormalized counters. The reaction ledger
// and the comment engine mutate them with atomic column updates as a second,
// non-transactional step after writing the owning row; the ledger remains the
// source of truth and the counters may drift after a crash between the two
// writes. See ReactionRepository and CommentRepository.
type Post struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	ImageURL      string         `json:"image_url"`
	Privacy       string         `gorm:"default:public" json:"privacy"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	User          User           `gorm:"foreignKey:UserID" json:"user"`
	LikesCount    int            `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int            `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Viewer-specific decoration, never persisted.
	Liked          bool   `gorm:"-" json:"liked"`
	UserReaction   string `gorm:"-" json:"user_reaction,omitempty"`
	RecentReactors []User `gorm:"-" json:"recent_reactors,omitempty"`
}
