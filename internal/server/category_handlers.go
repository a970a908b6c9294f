package server

import (
	"strings"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.List(c.Context())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(categories)
}

// CreateCategory handles POST /api/categories (admin only)
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(map[string]string{"name": "This field may not be blank."}))
	}
	if len(name) > 100 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(map[string]string{"name": "Ensure this field has no more than 100 characters."}))
	}

	category, err := s.categoryRepo.FindOrCreateByName(c.Context(), name)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}
