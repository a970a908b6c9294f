package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Subscribe handles POST /api/subscriptions/subscribe
func (s *Server) Subscribe(c *fiber.Ctx) error {
	var req service.SubscriptionInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	sub, err := s.subscriptionService.Subscribe(c.Context(), s.actor(c), req)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

// GetSubscriptions handles GET /api/subscriptions
func (s *Server) GetSubscriptions(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	subs, err := s.subscriptionService.ListForUser(c.Context(), userID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(subs)
}
