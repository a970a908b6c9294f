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

// CommentInput carries the writable comment fields from the transport layer.
type CommentInput struct {
	Text string `json:"text"`
}

// CommentService implements comment business logic and triggers the
// notification pipeline on creation.
type CommentService interface {
	Create(ctx context.Context, actor authz.Actor, postID uint, input CommentInput) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error)
	Update(ctx context.Context, actor authz.Actor, id uint, input CommentInput) (*models.Comment, error)
	Delete(ctx context.Context, actor authz.Actor, id uint) error
}

type commentService struct {
	comments      repository.CommentRepository
	posts         repository.PostRepository
	notifications NotificationService
}

// NewCommentService creates a new comment service
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, notifications NotificationService) CommentService {
	return &commentService{comments: comments, posts: posts, notifications: notifications}
}

func (s *commentService) Create(ctx context.Context, actor authz.Actor, postID uint, input CommentInput) (*models.Comment, error) {
	if d := authz.Authorize(actor, authz.ClassifyAction("create"), nil); !d.Allowed {
		return nil, denialError(d)
	}

	if strings.TrimSpace(input.Text) == "" {
		return nil, models.NewFieldValidationError(map[string]string{"text": msgFieldBlank})
	}

	post, err := s.posts.GetByID(ctx, postID, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:   input.Text,
		UserID: actor.ID,
		PostID: postID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Post-commit. A delivery failure never unwinds the comment.
	s.notifications.CommentCreated(ctx, post, comment)

	return s.comments.GetByID(ctx, comment.ID)
}

func (s *commentService) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if _, err := s.posts.GetByID(ctx, postID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID, limit, offset)
}

func (s *commentService) Update(ctx context.Context, actor authz.Actor, id uint, input CommentInput) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Comment", id)
	}
	if err != nil {
		return nil, err
	}

	if d := authz.Authorize(actor, authz.ClassifyAction("update"), &authz.Resource{AuthorID: comment.UserID}); !d.Allowed {
		return nil, denialError(d)
	}

	if strings.TrimSpace(input.Text) == "" {
		return nil, models.NewFieldValidationError(map[string]string{"text": msgFieldBlank})
	}

	comment.Text = input.Text
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, id)
}

func (s *commentService) Delete(ctx context.Context, actor authz.Actor, id uint) error {
	comment, err := s.comments.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Comment", id)
	}
	if err != nil {
		return err
	}

	if d := authz.Authorize(actor, authz.ClassifyAction("destroy"), &authz.Resource{AuthorID: comment.UserID}); !d.Allowed {
		return denialError(d)
	}

	return s.comments.Delete(ctx, id)
}
