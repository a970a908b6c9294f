package seed

import (
	"fmt"
	"log"
	"strings"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var defaultCategories = []string{
	"Technology", "Programming", "Travel", "Food", "Music",
	"Books", "Science", "Health", "Finance", "Art",
}

// Seed populates the database with test data: users, categories, posts,
// comments, and reactions.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		overrides := []func(*models.User){}
		if i == 0 {
			// First user is a known admin for manual testing.
			overrides = append(overrides, func(u *models.User) {
				u.Username = "admin"
				u.Email = "admin@example.com"
				u.IsAdmin = true
			})
		}
		user, err := f.CreateUser(overrides...)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	categories := make([]models.Category, 0, len(defaultCategories))
	for _, name := range defaultCategories {
		category, err := f.CreateCategory(name)
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		categories = append(categories, *category)
	}
	log.Printf("Created %d categories", len(categories))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.r.Intn(len(users))]
		post, err := f.CreatePost(author, categories)
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("Created %d posts", len(posts))

	comments := 0
	reactions := 0
	for _, post := range posts {
		for i := 0; i < f.r.Intn(5); i++ {
			commenter := users[f.r.Intn(len(users))]
			if _, err := f.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
		}
		for i := 0; i < f.r.Intn(8); i++ {
			reactor := users[f.r.Intn(len(users))]
			kind := models.ReactionLike
			if f.r.Intn(4) == 0 {
				kind = models.ReactionDislike
			}
			if err := f.CreateReaction(reactor, post, kind); err != nil {
				return fmt.Errorf("failed to create reaction: %w", err)
			}
			reactions++
		}
	}
	log.Printf("Created %d comments and %d reactions", comments, reactions)

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE notifications, subscriptions, reactions, comments, post_categories, post_attachments, attachments, posts, categories, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

// isUniqueViolation reports whether err is a unique constraint violation on
// either Postgres or SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
