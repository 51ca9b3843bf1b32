package seed

import (
	"fmt"
	"log"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// Options controls how much data the seeder generates.
type Options struct {
	NumUsers    int
	NumPosts    int
	MaxDays     int
	ShouldClean bool
}

// Seed fills the database with users, posts, comment threads, and reactions.
// Denormalized counters are recomputed from the ledgers at the end so the
// generated data satisfies the same invariants the API maintains.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 100
	}

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clear existing data: %w", err)
		}
	}

	factory, err := NewFactory(db, opts.MaxDays)
	if err != nil {
		return err
	}

	users, err := createUsers(db, factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	log.Printf("seeded %d users (password %q)", len(users), seedPassword)

	posts, err := createPosts(db, factory, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	log.Printf("seeded %d posts", len(posts))

	comments, err := createComments(db, factory, users, posts)
	if err != nil {
		return fmt.Errorf("create comments: %w", err)
	}
	log.Printf("seeded %d comments", comments)

	reactions, err := createReactions(db, factory, users, posts)
	if err != nil {
		return fmt.Errorf("create reactions: %w", err)
	}
	log.Printf("seeded %d reactions", reactions)

	if err := recountAll(db); err != nil {
		return fmt.Errorf("recount counters: %w", err)
	}
	return nil
}

func clearData(db *gorm.DB) error {
	// Reactions and comments reference posts and users, so delete inward out.
	for _, model := range []interface{}{
		&models.Reaction{}, &models.Comment{}, &models.Post{}, &models.User{},
	} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, f *Factory, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := f.BuildUser(i)
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(db *gorm.DB, f *Factory, users []*models.User, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[f.rng.Intn(len(users))]
		post := f.BuildPost(author)
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// createComments builds two-level threads: a handful of root comments per
// post, each with a chance of replies. Replies always hang off a root, same
// as the comment engine produces.
func createComments(db *gorm.DB, f *Factory, users []*models.User, posts []*models.Post) (int, error) {
	total := 0
	for _, post := range posts {
		roots := f.rng.Intn(4)
		for i := 0; i < roots; i++ {
			commenter := users[f.rng.Intn(len(users))]
			root := f.BuildComment(post, commenter, nil)
			if err := db.Create(root).Error; err != nil {
				return total, err
			}
			total++

			replies := f.rng.Intn(3)
			for j := 0; j < replies; j++ {
				replier := users[f.rng.Intn(len(users))]
				reply := f.BuildComment(post, replier, root)
				if err := db.Create(reply).Error; err != nil {
					return total, err
				}
				total++
			}
		}
	}
	return total, nil
}

// createReactions adds at most one reaction per (user, post) pair, matching
// the ledger's unique index.
func createReactions(db *gorm.DB, f *Factory, users []*models.User, posts []*models.Post) (int, error) {
	total := 0
	for _, post := range posts {
		for _, user := range users {
			if f.rng.Intn(4) != 0 {
				continue
			}
			reaction := &models.Reaction{
				UserID:     user.ID,
				TargetID:   post.ID,
				TargetType: models.TargetPost,
				Type:       f.ReactionType(),
				CreatedAt:  f.pastTime(),
			}
			if err := db.Create(reaction).Error; err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}

// recountAll rebuilds the denormalized counters from the ledgers.
func recountAll(db *gorm.DB) error {
	statements := []string{
		`UPDATE posts SET likes_count = (
			SELECT COUNT(*) FROM reactions
			WHERE reactions.target_id = posts.id AND reactions.target_type = 'post')`,
		`UPDATE posts SET comments_count = (
			SELECT COUNT(*) FROM comments
			WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL)`,
		`UPDATE comments SET likes_count = (
			SELECT COUNT(*) FROM reactions
			WHERE reactions.target_id = comments.id AND reactions.target_type = 'comment')`,
		`UPDATE comments SET reply_count = (
			SELECT COUNT(*) FROM comments replies
			WHERE replies.parent_comment_id = comments.id AND replies.deleted_at IS NULL)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
