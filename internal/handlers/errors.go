package handlers

import (
	"errors"
	"strconv"

	"asicshop/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  []apperr.FieldIssue `json:"errors,omitempty"`
}

// respondError converts err into a status code and an ErrorResponse. subject
// names the entity for not-found messages, e.g. "Product".
func respondError(c *fiber.Ctx, log *zap.Logger, err error, subject string) error {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "Validation failed", Errors: verr.Issues})
	case errors.Is(err, apperr.ErrDuplicateEmail):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "A user with this email already exists"})
	case errors.Is(err, apperr.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "Cart is empty"})
	case errors.Is(err, apperr.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid order status",
			Errors:  []apperr.FieldIssue{{Field: "status", Message: "must be one of pending processing shipped delivered"}},
		})
	case errors.Is(err, apperr.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Message: "Invalid email or password"})
	case errors.Is(err, apperr.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{Message: "Access denied"})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: subject + " not found"})
	default:
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "Internal server error"})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "Invalid request body"})
}

// paramID parses the :id route parameter.
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NewValidationError(apperr.FieldIssue{Field: "id", Message: "must be a positive integer"})
	}
	return uint(id), nil
}
