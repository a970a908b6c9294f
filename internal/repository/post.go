package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultListLimit matches the transport layer's default page size. Only the
// canonical anonymous first page is cached; filtered or paginated queries
// always hit the database.
const defaultListLimit = 20

// PostFilter carries the optional list filters for PostRepository.List.
type PostFilter struct {
	AuthorUsername string
	CategoryName   string
	Search         string
	Limit          int
	Offset         int
}

// PostRepository defines the interface for post data operations.
// currentUserID is 0 for anonymous requests; it only affects the computed
// liked/disliked fields, never which posts are visible.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ToggleReaction(ctx context.Context, userID, postID uint, kind models.ReactionKind) (models.ReactionState, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails attaches the computed engagement columns as correlated
// subqueries so a single SELECT carries everything the serializer needs.
func applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	return db.
		Select(`posts.*,
			(SELECT COUNT(*) FROM reactions WHERE reactions.post_id = posts.id AND reactions.kind = 'like') AS likes_count,
			(SELECT COUNT(*) FROM reactions WHERE reactions.post_id = posts.id AND reactions.kind = 'dislike') AS dislikes_count,
			(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) AS comments_count,
			EXISTS(SELECT 1 FROM reactions WHERE reactions.post_id = posts.id AND reactions.kind = 'like' AND reactions.user_id = ?) AS liked,
			EXISTS(SELECT 1 FROM reactions WHERE reactions.post_id = posts.id AND reactions.kind = 'dislike' AND reactions.user_id = ?) AS disliked`,
			currentUserID, currentUserID).
		Preload("User").
		Preload("Categories").
		Preload("Attachments")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	// Anonymous reads are cacheable; authenticated reads carry per-user
	// liked/disliked flags so they always hit the database.
	if currentUserID == 0 {
		var cached models.Post
		err := cache.Aside(ctx, cache.PostKey(id), &cached, cache.PostTTL, func() error {
			return applyPostDetails(r.db.WithContext(ctx), 0).First(&cached, id).Error
		})
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}

	var post models.Post
	if err := applyPostDetails(r.db.WithContext(ctx), currentUserID).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) listQuery(ctx context.Context, filter PostFilter, currentUserID uint) *gorm.DB {
	query := applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), currentUserID)

	if filter.AuthorUsername != "" {
		query = query.Joins("JOIN users ON users.id = posts.user_id").
			Where("users.username = ?", filter.AuthorUsername)
	}
	if filter.CategoryName != "" {
		query = query.
			Joins("JOIN post_categories ON post_categories.post_id = posts.id").
			Joins("JOIN categories ON categories.id = post_categories.category_id").
			Where("categories.name = ?", filter.CategoryName)
	}
	if filter.Search != "" {
		// LOWER + LIKE matches case-insensitively on both Postgres and SQLite.
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(posts.title) LIKE LOWER(?) OR LOWER(posts.content) LIKE LOWER(?)", pattern, pattern)
	}

	return query.
		Order("posts.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset)
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, currentUserID uint) ([]*models.Post, error) {
	// The unfiltered anonymous first page is the hot read; everything else
	// carries per-user flags or an unbounded filter combination.
	if currentUserID == 0 && filter == (PostFilter{Limit: defaultListLimit}) {
		var cached []*models.Post
		err := cache.Aside(ctx, cache.PostsListKey, &cached, cache.ListTTL, func() error {
			return r.listQuery(ctx, filter, 0).Find(&cached).Error
		})
		if err != nil {
			return nil, err
		}
		return cached, nil
	}

	var posts []*models.Post
	err := r.listQuery(ctx, filter, currentUserID).Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(post).Association("Categories").Replace(post.Categories); err != nil {
			return err
		}
		return tx.Model(post).Select("Title", "Content").Updates(post).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidatePostsList(ctx)
	return nil
}

// deletePostOwned removes a post and its dependents inside an already open
// transaction. Join table rows are removed explicitly since they have no
// model of their own.
func deletePostOwned(tx *gorm.DB, postID uint) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.Reaction{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM post_categories WHERE post_id = ?", postID).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM post_attachments WHERE post_id = ?", postID).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Post{}, postID).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePostOwned(tx, id)
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidatePostsList(ctx)
	return nil
}

// ToggleReaction moves the (user, post) pair through the engagement state
// machine in a single transaction:
//
//	no row            -> insert kind        -> liked/disliked
//	row with same kind -> delete row        -> neutral
//	row with other kind -> flip kind in place -> liked/disliked
//
// The unique index on (user_id, post_id) guarantees at most one row exists,
// so a like and a dislike can never coexist. Concurrent toggles queue behind
// a lock on the post row, so the read-then-write runs serially and no toggle
// is lost, including the same user double-submitting.
func (r *postRepository) ToggleReaction(ctx context.Context, userID, postID uint, kind models.ReactionKind) (models.ReactionState, error) {
	var state models.ReactionState

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SQLite rejects FOR UPDATE; its single writer already serializes
		// the transaction.
		postRead := tx
		if tx.Dialector.Name() != "sqlite" {
			postRead = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := postRead.First(&models.Post{}, postID).Error; err != nil {
			return err
		}

		var existing models.Reaction
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// ON CONFLICT keeps the unique (user_id, post_id) index
			// authoritative against rows written outside this path.
			// Valid on Postgres and SQLite.
			reaction := models.Reaction{UserID: userID, PostID: postID, Kind: kind}
			if err := tx.Exec(
				`INSERT INTO reactions (user_id, post_id, kind, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
				 ON CONFLICT (user_id, post_id) DO UPDATE SET kind = ?`,
				reaction.UserID, reaction.PostID, reaction.Kind, reaction.Kind,
			).Error; err != nil {
				return err
			}
			state = kind.State()
			return nil
		case err != nil:
			return err
		case existing.Kind == kind:
			if err := tx.Delete(&models.Reaction{}, existing.ID).Error; err != nil {
				return err
			}
			state = models.ReactionNeutral
			return nil
		default:
			if err := tx.Model(&models.Reaction{}).Where("id = ?", existing.ID).
				Update("kind", kind).Error; err != nil {
				return err
			}
			state = kind.State()
			return nil
		}
	})
	if err != nil {
		return "", err
	}

	cache.InvalidatePost(ctx, postID)
	cache.InvalidatePostsList(ctx)
	return state, nil
}
