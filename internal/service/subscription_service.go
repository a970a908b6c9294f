package service

import (
	"context"
	"strings"

	"inkwell/internal/authz"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// SubscriptionInput carries the writable subscription fields.
type SubscriptionInput struct {
	Category     *string `json:"category"`
	IsPostUpdate bool    `json:"is_post_update"`
}

// SubscriptionService records notification preferences. The delivery
// pipeline does not consult them yet; they are stored for the client to
// manage.
type SubscriptionService interface {
	Subscribe(ctx context.Context, actor authz.Actor, input SubscriptionInput) (*models.Subscription, error)
	ListForUser(ctx context.Context, userID uint) ([]*models.Subscription, error)
}

type subscriptionService struct {
	subscriptions repository.SubscriptionRepository
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(subscriptions repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{subscriptions: subscriptions}
}

func (s *subscriptionService) Subscribe(ctx context.Context, actor authz.Actor, input SubscriptionInput) (*models.Subscription, error) {
	if d := authz.Authorize(actor, authz.ClassifyAction("subscribe"), nil); !d.Allowed {
		return nil, denialError(d)
	}

	if input.Category != nil {
		trimmed := strings.TrimSpace(*input.Category)
		if trimmed == "" {
			return nil, models.NewFieldValidationError(map[string]string{"category": msgFieldBlank})
		}
		if len(trimmed) > 50 {
			return nil, models.NewFieldValidationError(map[string]string{"category": "Ensure this field has no more than 50 characters."})
		}
		input.Category = &trimmed
	}

	sub := &models.Subscription{
		UserID:       actor.ID,
		Category:     input.Category,
		IsPostUpdate: input.IsPostUpdate,
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) ListForUser(ctx context.Context, userID uint) ([]*models.Subscription, error) {
	return s.subscriptions.ListByUser(ctx, userID)
}
