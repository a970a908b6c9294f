// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	user := &models.User{
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		Password:  string(hashedPassword),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		IsAuthor:  true,
		IsReader:  true,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory persists a category with the given name, reusing an
// existing one on name collision.
func (f *Factory) CreateCategory(name string) (*models.Category, error) {
	var category models.Category
	err := f.db.Where("name = ?", name).
		FirstOrCreate(&category, models.Category{Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CreatePost constructs and persists a sample `models.Post` for the given
// user, spread over a realistic created_at range.
func (f *Factory) CreatePost(user *models.User, categories []models.Category, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:      gofakeit.Sentence(5),
		Content:    gofakeit.Paragraph(2, 4, 8, "\n"),
		UserID:     user.ID,
		Categories: pickCategories(f.r, categories),
	}

	daysBack := f.r.Intn(90)
	hoursBack := f.r.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a sample comment by user on post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Text:   gofakeit.Sentence(gofakeit.Number(4, 16)),
		UserID: user.ID,
		PostID: post.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateReaction persists a like or dislike by user on post. Duplicate
// (user, post) pairs are skipped silently.
func (f *Factory) CreateReaction(user *models.User, post *models.Post, kind models.ReactionKind) error {
	reaction := &models.Reaction{
		UserID: user.ID,
		PostID: post.ID,
		Kind:   kind,
	}
	err := f.db.Create(reaction).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

func pickCategories(r *rand.Rand, categories []models.Category) []models.Category {
	if len(categories) == 0 {
		return nil
	}
	n := 1 + r.Intn(min(3, len(categories)))
	picked := make([]models.Category, 0, n)
	seen := make(map[uint]struct{}, n)
	for len(picked) < n {
		c := categories[r.Intn(len(categories))]
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		picked = append(picked, c)
	}
	return picked
}
