package repository

import (
	"context"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Attachment{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Notification{},
		&models.Subscription{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Content: "content of " + title, UserID: author.ID}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestPostRepositoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")

	t.Run("Create And Get", func(t *testing.T) {
		post := &models.Post{
			Title:      "First Post",
			Content:    "Hello world",
			UserID:     author.ID,
			Categories: []models.Category{{Name: "tech"}},
		}
		require.NoError(t, repo.Create(ctx, post))
		assert.NotZero(t, post.ID)

		fetched, err := repo.GetByID(ctx, post.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, "First Post", fetched.Title)
		assert.Equal(t, author.ID, fetched.UserID)
		assert.Len(t, fetched.Categories, 1)
		assert.Zero(t, fetched.LikesCount)
		assert.False(t, fetched.Liked)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999, 0)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("Update Keeps Author", func(t *testing.T) {
		post := createTestPost(t, db, author, "Before")
		post.Title = "After"
		post.Content = "Updated"
		require.NoError(t, repo.Update(ctx, post))

		fetched, err := repo.GetByID(ctx, post.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, "After", fetched.Title)
		assert.Equal(t, author.ID, fetched.UserID)
	})

	t.Run("Delete Cascades", func(t *testing.T) {
		commenter := createTestUser(t, db, "commenter")
		post := createTestPost(t, db, author, "Doomed")
		require.NoError(t, db.Create(&models.Comment{Text: "hi", UserID: commenter.ID, PostID: post.ID}).Error)
		require.NoError(t, db.Create(&models.Reaction{UserID: commenter.ID, PostID: post.ID, Kind: models.ReactionLike}).Error)

		require.NoError(t, repo.Delete(ctx, post.ID))

		_, err := repo.GetByID(ctx, post.ID, 0)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		var commentCount, reactionCount int64
		db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)
		db.Model(&models.Reaction{}).Where("post_id = ?", post.ID).Count(&reactionCount)
		assert.Zero(t, commentCount)
		assert.Zero(t, reactionCount)
	})
}

func TestPostRepositoryList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	golang := models.Category{Name: "golang"}
	require.NoError(t, db.Create(&golang).Error)

	p1 := &models.Post{Title: "Concurrency patterns", Content: "channels everywhere", UserID: alice.ID, Categories: []models.Category{golang}}
	require.NoError(t, repo.Create(ctx, p1))
	createTestPost(t, db, bob, "Cooking with cast iron")

	t.Run("Filter By Author", func(t *testing.T) {
		posts, err := repo.List(ctx, PostFilter{AuthorUsername: "alice", Limit: 20}, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "Concurrency patterns", posts[0].Title)
	})

	t.Run("Filter By Category", func(t *testing.T) {
		posts, err := repo.List(ctx, PostFilter{CategoryName: "golang", Limit: 20}, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, p1.ID, posts[0].ID)
	})

	t.Run("Search Is Case Insensitive", func(t *testing.T) {
		posts, err := repo.List(ctx, PostFilter{Search: "CONCURRENCY", Limit: 20}, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)

		posts, err = repo.List(ctx, PostFilter{Search: "cast iron", Limit: 20}, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
	})

	t.Run("No Filter Returns All", func(t *testing.T) {
		posts, err := repo.List(ctx, PostFilter{Limit: 20}, 0)
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})
}

func TestToggleReaction(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "owner")
	reader := createTestUser(t, db, "reader")
	post := createTestPost(t, db, author, "Reactive")

	countReactions := func() int64 {
		var n int64
		db.Model(&models.Reaction{}).Where("post_id = ?", post.ID).Count(&n)
		return n
	}

	t.Run("Neutral To Liked", func(t *testing.T) {
		state, err := repo.ToggleReaction(ctx, reader.ID, post.ID, models.ReactionLike)
		require.NoError(t, err)
		assert.Equal(t, models.ReactionStateLiked, state)
		assert.EqualValues(t, 1, countReactions())
	})

	t.Run("Liked To Disliked Flips Single Row", func(t *testing.T) {
		state, err := repo.ToggleReaction(ctx, reader.ID, post.ID, models.ReactionDislike)
		require.NoError(t, err)
		assert.Equal(t, models.ReactionStateDisliked, state)
		// Still exactly one row: like and dislike can never coexist.
		assert.EqualValues(t, 1, countReactions())
	})

	t.Run("Disliked To Neutral", func(t *testing.T) {
		state, err := repo.ToggleReaction(ctx, reader.ID, post.ID, models.ReactionDislike)
		require.NoError(t, err)
		assert.Equal(t, models.ReactionNeutral, state)
		assert.EqualValues(t, 0, countReactions())
	})

	t.Run("Like Twice Returns To Neutral", func(t *testing.T) {
		state, err := repo.ToggleReaction(ctx, reader.ID, post.ID, models.ReactionLike)
		require.NoError(t, err)
		assert.Equal(t, models.ReactionStateLiked, state)

		state, err = repo.ToggleReaction(ctx, reader.ID, post.ID, models.ReactionLike)
		require.NoError(t, err)
		assert.Equal(t, models.ReactionNeutral, state)
		assert.EqualValues(t, 0, countReactions())
	})

	t.Run("Missing Post", func(t *testing.T) {
		_, err := repo.ToggleReaction(ctx, reader.ID, 9999, models.ReactionLike)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("Computed Fields Reflect State", func(t *testing.T) {
		_, err := repo.ToggleReaction(ctx, reader.ID, post.ID, models.ReactionLike)
		require.NoError(t, err)

		asReader, err := repo.GetByID(ctx, post.ID, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, asReader.LikesCount)
		assert.Equal(t, 0, asReader.DislikesCount)
		assert.True(t, asReader.Liked)
		assert.False(t, asReader.Disliked)

		asAuthor, err := repo.GetByID(ctx, post.ID, author.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, asAuthor.LikesCount)
		assert.False(t, asAuthor.Liked)
	})
}

func TestPostListFirstPageCached(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	author := createTestUser(t, db, "pagist")
	createTestPost(t, db, author, "One")

	firstPage := PostFilter{Limit: 20}

	t.Run("Anonymous First Page Populates Key", func(t *testing.T) {
		posts, err := repo.List(ctx, firstPage, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.True(t, mr.Exists(cache.PostsListKey))
	})

	t.Run("Cache Hit Skips Database", func(t *testing.T) {
		// Written behind the repository's back, so no invalidation ran.
		createTestPost(t, db, author, "Two")

		posts, err := repo.List(ctx, firstPage, 0)
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})

	t.Run("Authenticated List Bypasses Cache", func(t *testing.T) {
		posts, err := repo.List(ctx, firstPage, author.ID)
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("Create Invalidates First Page", func(t *testing.T) {
		post := &models.Post{Title: "Three", Content: "fresh", UserID: author.ID}
		require.NoError(t, repo.Create(ctx, post))

		posts, err := repo.List(ctx, firstPage, 0)
		require.NoError(t, err)
		assert.Len(t, posts, 3)
	})

	t.Run("Filtered List Not Cached", func(t *testing.T) {
		mr.FlushAll()

		posts, err := repo.List(ctx, PostFilter{Search: "Three", Limit: 20}, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.False(t, mr.Exists(cache.PostsListKey))
	})
}
