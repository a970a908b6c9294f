package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	limit, offset := parsePagination(c)

	comments, err := s.commentService.ListByPost(c.Context(), postID, limit, offset)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(comments)
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req service.CommentInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Create(c.Context(), s.actor(c), postID, req)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// commentInPost resolves the :commentId parameter and checks it belongs to
// the :id post; a comment reached through the wrong post is a 404.
func (s *Server) commentInPost(c *fiber.Ctx) (uint, error) {
	postID, err := parseID(c, "id")
	if err != nil {
		return 0, err
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return 0, err
	}

	comment, err := s.commentRepo.GetByID(c.Context(), commentID)
	if err != nil {
		return 0, models.NewNotFoundError("Comment", commentID)
	}
	if comment.PostID != postID {
		return 0, models.NewNotFoundError("Comment", commentID)
	}
	return commentID, nil
}

// UpdateComment handles PUT and PATCH /api/posts/:id/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.commentInPost(c)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	var req service.CommentInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Update(c.Context(), s.actor(c), commentID, req)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.commentInPost(c)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	if err := s.commentService.Delete(c.Context(), s.actor(c), commentID); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
