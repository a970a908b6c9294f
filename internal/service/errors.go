// Package service implements the application's business logic on top of the
// repository layer: validation, authorization enforcement, and the
// notification pipeline.
package service

import (
	"inkwell/internal/authz"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	msgFieldBlank = "This field may not be blank."
	msgListEmpty  = "This list may not be empty."
)

// denialError converts an authorization denial into the AppError the
// transport layer surfaces. The decision layer owns the reason-to-status
// mapping; this only picks the matching error shape.
func denialError(d authz.Decision) *models.AppError {
	if authz.HTTPStatus(d.Reason) == fiber.StatusUnauthorized {
		return models.NewUnauthorizedError("Authentication credentials were not provided.")
	}
	return models.NewForbiddenError("You do not have permission to perform this action.")
}
