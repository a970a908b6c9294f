package service

import (
	"context"
	"log/slog"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const commentNotificationPrefix = "New comment on your post: "

// NotificationService produces and lists notifications. Delivery is
// fire-and-forget: a failure here is logged and never surfaces to the
// operation that triggered it.
type NotificationService interface {
	CommentCreated(ctx context.Context, post *models.Post, comment *models.Comment)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifications repository.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

// CommentCreated notifies the post's author that a comment landed on their
// post. Every comment notifies, including the author commenting on their own
// post; subscription preferences are not consulted. At-most-once: if the
// insert fails the notification is lost, the comment is not rolled back.
// The comment text passes through untouched; if it overflows the column the
// insert fails and is logged like any other delivery failure.
func (s *notificationService) CommentCreated(ctx context.Context, post *models.Post, comment *models.Comment) {
	notification := &models.Notification{
		UserID:  post.UserID,
		Message: commentNotificationPrefix + comment.Text,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		middleware.Logger.ErrorContext(ctx, "notification delivery failed",
			slog.Uint64("post_id", uint64(post.ID)),
			slog.Uint64("recipient_id", uint64(post.UserID)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *notificationService) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.notifications.ListByUser(ctx, userID, limit, offset)
}
