package service

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/authz"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

// PostInput carries the writable post fields from the transport layer.
type PostInput struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Categories []string `json:"categories"`
}

// PostService implements post business logic: validation, authorization,
// category resolution, and the engagement state machine.
type PostService interface {
	Create(ctx context.Context, actor authz.Actor, input PostInput) (*models.Post, error)
	Get(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, filter repository.PostFilter, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, actor authz.Actor, id uint, input PostInput, partial bool) (*models.Post, error)
	Delete(ctx context.Context, actor authz.Actor, id uint) error
	ToggleLike(ctx context.Context, actor authz.Actor, postID uint) (models.ReactionState, error)
	ToggleDislike(ctx context.Context, actor authz.Actor, postID uint) (models.ReactionState, error)
}

type postService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
}

// NewPostService creates a new post service
func NewPostService(posts repository.PostRepository, categories repository.CategoryRepository) PostService {
	return &postService{posts: posts, categories: categories}
}

// validatePostInput checks the writable fields and collects every failure,
// keyed by field name, so the client sees all problems at once.
func validatePostInput(input PostInput, partial bool) map[string]string {
	fields := make(map[string]string)
	if partial {
		// Partial updates validate only the fields actually supplied.
		if input.Title != "" && strings.TrimSpace(input.Title) == "" {
			fields["title"] = msgFieldBlank
		}
		if input.Content != "" && strings.TrimSpace(input.Content) == "" {
			fields["content"] = msgFieldBlank
		}
	} else {
		if strings.TrimSpace(input.Title) == "" {
			fields["title"] = msgFieldBlank
		}
		if strings.TrimSpace(input.Content) == "" {
			fields["content"] = msgFieldBlank
		}
		if len(input.Categories) == 0 {
			fields["categories"] = msgListEmpty
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (s *postService) resolveCategories(ctx context.Context, names []string) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		category, err := s.categories.FindOrCreateByName(ctx, name)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, nil
}

func (s *postService) Create(ctx context.Context, actor authz.Actor, input PostInput) (*models.Post, error) {
	if d := authz.Authorize(actor, authz.ClassifyAction("create"), nil); !d.Allowed {
		return nil, denialError(d)
	}

	if fields := validatePostInput(input, false); fields != nil {
		return nil, models.NewFieldValidationError(fields)
	}

	categories, err := s.resolveCategories(ctx, input.Categories)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      strings.TrimSpace(input.Title),
		Content:    input.Content,
		UserID:     actor.ID,
		Categories: categories,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, post.ID, actor.ID)
}

func (s *postService) Get(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id, currentUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, filter repository.PostFilter, currentUserID uint) ([]*models.Post, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.posts.List(ctx, filter, currentUserID)
}

func (s *postService) Update(ctx context.Context, actor authz.Actor, id uint, input PostInput, partial bool) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id, actor.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return nil, err
	}

	action := "update"
	if partial {
		action = "partial_update"
	}
	if d := authz.Authorize(actor, authz.ClassifyAction(action), &authz.Resource{AuthorID: post.UserID}); !d.Allowed {
		return nil, denialError(d)
	}

	if fields := validatePostInput(input, partial); fields != nil {
		return nil, models.NewFieldValidationError(fields)
	}

	if !partial || input.Title != "" {
		post.Title = strings.TrimSpace(input.Title)
	}
	if !partial || input.Content != "" {
		post.Content = input.Content
	}
	if !partial || input.Categories != nil {
		categories, err := s.resolveCategories(ctx, input.Categories)
		if err != nil {
			return nil, err
		}
		post.Categories = categories
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, id, actor.ID)
}

func (s *postService) Delete(ctx context.Context, actor authz.Actor, id uint) error {
	post, err := s.posts.GetByID(ctx, id, actor.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return err
	}

	if d := authz.Authorize(actor, authz.ClassifyAction("destroy"), &authz.Resource{AuthorID: post.UserID}); !d.Allowed {
		return denialError(d)
	}

	return s.posts.Delete(ctx, id)
}

func (s *postService) toggle(ctx context.Context, actor authz.Actor, postID uint, kind models.ReactionKind) (models.ReactionState, error) {
	if d := authz.Authorize(actor, authz.ClassifyAction(string(kind)), nil); !d.Allowed {
		return "", denialError(d)
	}

	state, err := s.posts.ToggleReaction(ctx, actor.ID, postID, kind)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return "", err
	}
	return state, nil
}

func (s *postService) ToggleLike(ctx context.Context, actor authz.Actor, postID uint) (models.ReactionState, error) {
	return s.toggle(ctx, actor, postID, models.ReactionLike)
}

func (s *postService) ToggleDislike(ctx context.Context, actor authz.Actor, postID uint) (models.ReactionState, error) {
	return s.toggle(ctx, actor, postID, models.ReactionDislike)
}
