package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/deshimart/internal/services"
)

// serviceError maps a service failure onto an HTTP error. Unknown
// errors pass through and surface as a generic 500 with the detail
// logged, not shown.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrEmptyCart):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrOutOfStock):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}

// ErrorHandler renders every error in the response envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
