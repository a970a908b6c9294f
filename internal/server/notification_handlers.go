package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
// Returns the caller's notifications, newest first.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	limit, offset := parsePagination(c)

	notifications, err := s.notificationService.ListForUser(c.Context(), userID, limit, offset)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(notifications)
}
