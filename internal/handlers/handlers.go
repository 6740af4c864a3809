package handlers

import (
	"errors"
	"fmt"

	"conduit/internal/repositories"
	"conduit/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondValidationErrors renders a 422 with a per-field error map, built
// from the validator's field errors.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// respondError maps a service error to its HTTP response. The distinction
// matters: a caller without a credential gets 401, a caller with a valid
// credential who is simply not permitted gets 403. Unmatched errors become
// a 500 with the given fallback message.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var status int
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrEmailUnverified),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrTokenExpired):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": fallback,
			"error":   err.Error(),
		})
	}

	message := err.Error()
	if errors.Is(err, services.ErrEmailUnverified) {
		message = "Please verify your email"
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
	})
}
