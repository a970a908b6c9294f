package server

import (
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// Supports author, category, and search query filters plus limit/offset.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	currentUserID, _ := s.optionalUserID(c)
	limit, offset := parsePagination(c)

	filter := repository.PostFilter{
		AuthorUsername: c.Query("author"),
		CategoryName:   c.Query("category"),
		Search:         c.Query("search"),
		Limit:          limit,
		Offset:         offset,
	}

	posts, err := s.postService.List(c.Context(), filter, currentUserID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	currentUserID, _ := s.optionalUserID(c)

	post, err := s.postService.Get(c.Context(), id, currentUserID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.PostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.Context(), s.actor(c), req)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	return s.updatePost(c, false)
}

// PartialUpdatePost handles PATCH /api/posts/:id
func (s *Server) PartialUpdatePost(c *fiber.Ctx) error {
	return s.updatePost(c, true)
}

func (s *Server) updatePost(c *fiber.Ctx, partial bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req service.PostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(c.Context(), s.actor(c), id, req, partial)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.postService.Delete(c.Context(), s.actor(c), id); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like
// Toggles the caller's like: neutral -> liked, liked -> neutral,
// disliked -> liked.
func (s *Server) LikePost(c *fiber.Ctx) error {
	return s.togglePostReaction(c, true)
}

// DislikePost handles POST /api/posts/:id/dislike
func (s *Server) DislikePost(c *fiber.Ctx) error {
	return s.togglePostReaction(c, false)
}

func (s *Server) togglePostReaction(c *fiber.Ctx, like bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var state models.ReactionState
	if like {
		state, err = s.postService.ToggleLike(c.Context(), s.actor(c), id)
	} else {
		state, err = s.postService.ToggleDislike(c.Context(), s.actor(c), id)
	}
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"state":  state,
	})
}
