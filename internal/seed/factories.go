// Package seed populates the database with demo data for development and
// load testing. Not for production use.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ripple/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Every seeded account shares this password so any of them can be used to
// log in during development.
const seedPassword = "RippleDemo2024!"

var reactionTypes = []string{"Like", "Love", "Haha", "Wow", "Sad", "Angry"}

// Factory builds domain entities with realistic fake data.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand

	passwordHash string
	maxDays      int
}

// NewFactory creates a Factory bound to the given database. The bcrypt hash
// of the shared password is computed once because hashing dominates seeding
// time otherwise.
func NewFactory(db *gorm.DB, maxDays int) (*Factory, error) {
	gofakeit.Seed(time.Now().UnixNano())
	if maxDays <= 0 {
		maxDays = 90
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Factory{
		db:           db,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
		maxDays:      maxDays,
	}, nil
}

// pastTime spreads timestamps back over the configured window so the feed
// looks lived-in rather than created all at once.
func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.rng.Intn(f.maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

// BuildUser constructs an unsaved user. The index keeps usernames unique
// even when gofakeit repeats itself.
func (f *Factory) BuildUser(i int) *models.User {
	name := strings.ToLower(gofakeit.Username())
	return &models.User{
		Username:  fmt.Sprintf("%s_%d", name, i),
		Email:     fmt.Sprintf("%s_%d@%s", name, i, gofakeit.DomainName()),
		Password:  f.passwordHash,
		Bio:       gofakeit.Sentence(8),
		Avatar:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		CreatedAt: f.pastTime(),
	}
}

// BuildPost constructs an unsaved post for the given author. Roughly a third
// of posts carry an image and one in ten is private.
func (f *Factory) BuildPost(user *models.User) *models.Post {
	post := &models.Post{
		Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
		Privacy:   models.PrivacyPublic,
		UserID:    user.ID,
		CreatedAt: f.pastTime(),
	}
	if f.rng.Intn(3) == 0 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}
	if f.rng.Intn(10) == 0 {
		post.Privacy = models.PrivacyPrivate
	}
	return post
}

// BuildComment constructs an unsaved comment. When parent is non-nil the
// comment is attached under it as a reply; parent must be a root comment.
func (f *Factory) BuildComment(post *models.Post, user *models.User, parent *models.Comment) *models.Comment {
	comment := &models.Comment{
		Content:   gofakeit.Sentence(f.rng.Intn(12) + 3),
		PostID:    post.ID,
		UserID:    user.ID,
		CreatedAt: f.pastTime(),
	}
	if parent != nil {
		comment.ParentCommentID = &parent.ID
		comment.ReplyToUserID = &parent.UserID
		if comment.CreatedAt.Before(parent.CreatedAt) {
			comment.CreatedAt = parent.CreatedAt.Add(time.Duration(f.rng.Intn(600)+1) * time.Minute)
		}
	}
	return comment
}

// ReactionType picks a weighted reaction type; plain likes dominate.
func (f *Factory) ReactionType() string {
	if f.rng.Intn(2) == 0 {
		return models.DefaultReactionType
	}
	return reactionTypes[f.rng.Intn(len(reactionTypes))]
}
