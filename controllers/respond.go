package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fiich/apperrors"
	"fiich/utils"
)

// respondError maps a service error onto the HTTP boundary. Every failure
// kind gets its own status and message; raw store or transport errors
// never reach the client, but infrastructure failures are captured with
// full detail server-side before the generic reply goes out.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", nil)
	case errors.Is(err, apperrors.ErrNotAuthorized):
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You are not allowed to perform this action", nil)
	case errors.Is(err, apperrors.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Resource not found", nil)
	case errors.Is(err, apperrors.ErrExpired):
		return utils.ErrorResponse(c, fiber.StatusGone, "This invitation has expired", nil)
	case errors.Is(err, apperrors.ErrEmailMismatch):
		return utils.ErrorResponse(c, fiber.StatusForbidden, "This invitation was sent to a different email address", nil)
	case errors.Is(err, apperrors.ErrConflict):
		return utils.ErrorResponse(c, fiber.StatusConflict, "Resource already exists", nil)
	default:
		utils.CaptureError(err, map[string]interface{}{
			"path":   c.Path(),
			"method": c.Method(),
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Something went wrong. Please try again later.", nil)
	}
}
