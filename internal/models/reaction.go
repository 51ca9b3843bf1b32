package models

import "time"

// Reaction target types.
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// DefaultReactionType is used when a reaction request carries no type.
const DefaultReactionType = "Like"

// Reaction is one ledger entry: a typed response by one user to one target.
//
// The composite unique index enforces at most one live entry per
// (user, target). TargetType is part of the index because post and comment
// IDs come from separate sequences and can collide. Changing a reaction
// mutates the existing row; toggling it off hard-deletes the row, so there is
// no soft-delete column here.
type Reaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_target" json:"user_id"`
	TargetID   uint      `gorm:"not null;uniqueIndex:idx_user_target" json:"target_id"`
	TargetType string    `gorm:"not null;uniqueIndex:idx_user_target" json:"target_type"`
	Type       string    `gorm:"not null;default:Like" json:"type"`
	CreatedAt  time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

// ValidTargetType reports whether t names a reactable entity.
func ValidTargetType(t string) bool {
	return t == TargetPost || t == TargetComment
}
